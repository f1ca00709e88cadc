// Package animator decomposes text blocks into per-character units and
// staggers them in and out on a scheduler.
package animator

import (
	"log/slog"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/aretw0/reveal/internal/logging"
	"github.com/aretw0/reveal/pkg/clock"
	"github.com/aretw0/reveal/pkg/ports"
	"github.com/aretw0/reveal/pkg/timing"
)

// Animator schedules reveal and conceal operations on text groups.
type Animator struct {
	sched  ports.Scheduler
	timing *timing.Config
	logger *slog.Logger
}

// Option configures an Animator.
type Option func(*Animator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Animator) {
		a.logger = logger
	}
}

// New creates an animator bound to a scheduler and a timing table.
func New(sched ports.Scheduler, cfg *timing.Config, opts ...Option) *Animator {
	a := &Animator{
		sched:  sched,
		timing: cfg,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Decompose splits the text of every word element inside container into one
// unit per character. A container without word elements is split itself.
// Running it again on the same container collects the existing units instead
// of wrapping them twice. A nil container yields an empty group.
func (a *Animator) Decompose(container ports.Element, name string) *Group {
	return a.decompose(container, name, splitChars)
}

// DecomposeAtomic wraps the whole text of every child element as a single unit,
// as done for the parts of a value group (currency symbol, amount).
func (a *Animator) DecomposeAtomic(container ports.Element, name string) *Group {
	return a.decompose(container, name, splitWhole)
}

func (a *Animator) decompose(container ports.Element, name string, split func(string) []string) *Group {
	group := &Group{Name: name}
	if container == nil {
		return group
	}

	words := container.Children()
	if existing := container.Units(); len(existing) > 0 || len(words) == 0 {
		words = []ports.Element{container}
	}

	for _, word := range words {
		highlight := word.HasFlag(HighlightClass)
		units := word.Units()
		if units == nil {
			parts := split(word.Text())
			if len(parts) == 0 {
				continue
			}
			units = word.Split(parts)
		}
		for _, el := range units {
			group.Units = append(group.Units, &Unit{
				Element:   el,
				Index:     len(group.Units),
				Highlight: highlight,
			})
		}
	}

	a.logger.Debug("decomposed group", "group", name, "units", len(group.Units))
	return group
}

func splitChars(text string) []string {
	text = norm.NFC.String(text)
	parts := make([]string, 0, len(text))
	for _, r := range text {
		parts = append(parts, string(r))
	}
	return parts
}

func splitWhole(text string) []string {
	if text == "" {
		return nil
	}
	return []string{norm.NFC.String(text)}
}

// RevealIn schedules unit i of n to become visible at startDelay + i*(total/n)
// and returns startDelay + total, the offset at which a following phase may start.
// It never blocks. An empty group schedules nothing and returns startDelay.
//
// A RevealIn on a group whose conceal is still running starts once that
// conceal resolves, counting startDelay from then.
func (a *Animator) RevealIn(group *Group, total, startDelay time.Duration) time.Duration {
	n := group.Len()
	if n == 0 {
		return startDelay
	}

	stagger := total / time.Duration(n)
	done := clock.NewCompletion()
	schedule := func() {
		for i, u := range group.Units {
			a.sched.Schedule(startDelay+time.Duration(i)*stagger, u.reveal)
		}
		a.sched.Schedule(startDelay+time.Duration(n-1)*stagger, done.Resolve)
	}

	prev := group.active()
	switch {
	case prev != nil && prev.conceal:
		a.logger.Debug("reveal in waits for reveal out", "group", group.Name)
		group.inflight = &operation{done: done}
		prev.done.Then(schedule)
	case prev != nil:
		group.inflight = &operation{done: clock.All(prev.done, done)}
		schedule()
	default:
		group.inflight = &operation{done: done}
		schedule()
	}

	a.logger.Debug("reveal in scheduled", "group", group.Name, "units", n, "start", startDelay, "total", total)
	return startDelay + total
}

// RevealOut conceals the group in reverse index order. Each unit fades, then
// after the conceal settle receives the offset transform. The returned
// completion resolves a grace period after the first unit (processed last)
// has been offset. An empty group resolves immediately.
//
// A RevealOut on a group whose conceal is still running returns the running
// completion instead of starting a second one. A RevealOut on a group whose
// reveal is still running starts once its last unit is visible.
func (a *Animator) RevealOut(group *Group) *clock.Completion {
	if group.Len() == 0 {
		return clock.Resolved()
	}

	prev := group.active()
	if prev != nil && prev.conceal {
		a.logger.Debug("reveal out already running", "group", group.Name)
		return prev.done
	}

	done := clock.NewCompletion()
	group.inflight = &operation{done: done, conceal: true}
	if prev != nil {
		a.logger.Debug("reveal out waits for reveal in", "group", group.Name)
		prev.done.Then(func() {
			a.conceal(group, done)
		})
		return done
	}

	a.conceal(group, done)
	return done
}

func (a *Animator) conceal(group *Group, done *clock.Completion) {
	n := group.Len()
	stagger := a.timing.Duration(timing.ElementExit) / time.Duration(n)
	settle := a.timing.ConcealSettle()
	grace := a.timing.ConcealGrace()
	offset := a.timing.ConcealOffset()
	transition := a.timing.Transitions().CSS()

	for k := 0; k < n; k++ {
		u := group.Units[n-1-k]
		last := k == n-1
		u.Element.SetStyle("transition", transition)

		a.sched.Schedule(time.Duration(k)*stagger, func() {
			u.fade()
			a.sched.Schedule(settle, func() {
				u.offset(offset)
				if last {
					a.sched.Schedule(grace, done.Resolve)
				}
			})
		})
	}

	a.logger.Debug("reveal out scheduled", "group", group.Name, "units", n, "stagger", stagger)
}
