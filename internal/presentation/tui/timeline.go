package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/reveal/pkg/domain"
)

// Entry is one line of the timeline.
type Entry struct {
	At     time.Duration
	Kind   string
	From   domain.Phase
	To     domain.Phase
	Signal domain.Signal
	Cycle  int
	Took   time.Duration
}

// Timeline kinds.
const (
	KindTransition = "transition"
	KindIgnored    = "ignored"
	KindCycle      = "cycle"
)

// Timeline records sequencer events for display.
type Timeline struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTimeline returns an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Hooks returns lifecycle hooks recording into the timeline.
func (t *Timeline) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseEnter: func(_ context.Context, e *domain.TransitionEvent) {
			t.add(Entry{At: e.Elapsed, Kind: KindTransition, From: e.From, To: e.To, Signal: e.Signal, Cycle: e.Cycle})
		},
		OnSignalIgnored: func(_ context.Context, e *domain.SignalEvent) {
			t.add(Entry{At: e.Elapsed, Kind: KindIgnored, From: e.Phase, To: e.Phase, Signal: e.Signal})
		},
		OnCycleComplete: func(_ context.Context, e *domain.CycleEvent) {
			t.add(Entry{At: e.Finished, Kind: KindCycle, Cycle: e.Cycle, Took: e.Duration()})
		},
	}
}

func (t *Timeline) add(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// Entries returns a copy of the recorded entries.
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// ColorEnabled reports whether f is a terminal that should receive colors.
func ColorEnabled(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Print writes the timeline one event per line, colored when color is set.
func (t *Timeline) Print(w io.Writer, color bool) {
	profile := termenv.Ascii
	if color {
		profile = termenv.ColorProfile()
	}

	for _, e := range t.Entries() {
		at := fmt.Sprintf("%9s", formatDuration(e.At))
		switch e.Kind {
		case KindTransition:
			fmt.Fprintf(w, "%s  %s -> %s  %s\n",
				at,
				e.From,
				profile.String(string(e.To)).Foreground(profile.Color("#818cf8")).Bold(),
				profile.String("("+e.Signal.String()+")").Faint(),
			)
		case KindIgnored:
			fmt.Fprintf(w, "%s  %s %s in %s\n",
				at,
				profile.String("ignored").Foreground(profile.Color("#fb7185")),
				e.Signal,
				e.From,
			)
		case KindCycle:
			fmt.Fprintf(w, "%s  %s\n",
				at,
				profile.String(fmt.Sprintf("cycle %d complete in %s", e.Cycle, formatDuration(e.Took))).Foreground(profile.Color("#34d399")),
			)
		}
	}
}

// Markdown renders the timeline as a markdown report.
func (t *Timeline) Markdown(title string) string {
	entries := t.Entries()

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	sb.WriteString("| time | event | from | to | signal |\n")
	sb.WriteString("|------|-------|------|----|--------|\n")

	var cycles, ignored int
	for _, e := range entries {
		switch e.Kind {
		case KindTransition:
			fmt.Fprintf(&sb, "| %s | transition | %s | %s | `%s` |\n", formatDuration(e.At), e.From, e.To, e.Signal)
		case KindIgnored:
			ignored++
			fmt.Fprintf(&sb, "| %s | ignored | %s | | `%s` |\n", formatDuration(e.At), e.From, e.Signal)
		case KindCycle:
			cycles++
			fmt.Fprintf(&sb, "| %s | cycle %d complete (%s) | | | |\n", formatDuration(e.At), e.Cycle, formatDuration(e.Took))
		}
	}

	fmt.Fprintf(&sb, "\n**%d** cycles, **%d** ignored signals.\n", cycles, ignored)
	return sb.String()
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
