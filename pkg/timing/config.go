// Package timing holds the static durations and delays of every reveal phase.
package timing

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrInvalidDuration is returned when a phase duration is not strictly positive
	// or a delay is negative.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrUnknownPhase is returned when a configuration names a phase that does not exist.
	ErrUnknownPhase = errors.New("unknown phase")

	// ErrMissingPhase is returned when a configuration omits a required phase.
	ErrMissingPhase = errors.New("missing phase")
)

// Phase names a timed step of the reveal sequence.
type Phase string

const (
	TitleIn          Phase = "title_in"
	SubtitleIn       Phase = "subtitle_in"
	ValueGroupIn     Phase = "value_group_in"
	ElementExit      Phase = "element_exit"
	ElementExitDelay Phase = "element_exit_delay"
)

// Phases returns every timed phase.
func Phases() []Phase {
	return []Phase{TitleIn, SubtitleIn, ValueGroupIn, ElementExit, ElementExitDelay}
}

func (p Phase) valid() bool {
	for _, known := range Phases() {
		if p == known {
			return true
		}
	}
	return false
}

// Spec is the timing of one phase. Delay is optional and added before the phase starts.
type Spec struct {
	Duration time.Duration
	Delay    time.Duration
}

// Transitions describes the CSS transitions the styling layer applies to units.
// The sequencer writes them onto units but never interprets them.
type Transitions struct {
	Opacity   time.Duration
	Transform time.Duration
	Easing    string
}

// CSS renders the declaration, e.g. "opacity 0.15s cubic-bezier(...), transform 0.25s cubic-bezier(...)".
func (t Transitions) CSS() string {
	return fmt.Sprintf("opacity %s %s, transform %s %s",
		seconds(t.Opacity), t.Easing, seconds(t.Transform), t.Easing)
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}

// Config is an immutable phase table plus the fixed waits of the sequence.
type Config struct {
	phases map[Phase]Spec

	concealSettle time.Duration
	concealGrace  time.Duration
	concealOffset string
	exitSettle    time.Duration
	reEntryDelay  time.Duration
	transitions   Transitions
}

// Option configures the fixed waits of a Config.
type Option func(*Config)

// WithConceal sets the settle between fade and offset, the grace after the
// last offset, and the offset transform itself.
func WithConceal(settle, grace time.Duration, offset string) Option {
	return func(c *Config) {
		c.concealSettle = settle
		c.concealGrace = grace
		if offset != "" {
			c.concealOffset = offset
		}
	}
}

// WithCycle sets the settle after the exit chain and the delay before the title re-enters.
func WithCycle(exitSettle, reEntryDelay time.Duration) Option {
	return func(c *Config) {
		c.exitSettle = exitSettle
		c.reEntryDelay = reEntryDelay
	}
}

// WithTransitions sets the styling-layer transitions written before concealing.
func WithTransitions(t Transitions) Option {
	return func(c *Config) {
		c.transitions = t
	}
}

// DefaultPhases returns the phase table of the reference page.
func DefaultPhases() map[Phase]Spec {
	return map[Phase]Spec{
		TitleIn:          {Duration: 1600 * time.Millisecond},
		SubtitleIn:       {Duration: 500 * time.Millisecond},
		ValueGroupIn:     {Duration: 300 * time.Millisecond},
		ElementExit:      {Duration: 300 * time.Millisecond},
		ElementExitDelay: {Duration: 60 * time.Millisecond},
	}
}

// DefaultTransitions returns the transitions the styling layer is expected to own.
func DefaultTransitions() Transitions {
	return Transitions{
		Opacity:   150 * time.Millisecond,
		Transform: 250 * time.Millisecond,
		Easing:    "cubic-bezier(0.4, 0.0, 0.2, 1)",
	}
}

// Default returns the configuration of the reference page.
func Default() *Config {
	cfg, err := New(DefaultPhases())
	if err != nil {
		panic(err)
	}
	return cfg
}

// New validates the phase table and builds a Config.
// Every phase must be present with a positive duration.
func New(phases map[Phase]Spec, opts ...Option) (*Config, error) {
	cfg := &Config{
		phases:        make(map[Phase]Spec, len(phases)),
		concealSettle: 25 * time.Millisecond,
		concealGrace:  50 * time.Millisecond,
		concealOffset: "translateY(-25px)",
		exitSettle:    500 * time.Millisecond,
		reEntryDelay:  100 * time.Millisecond,
		transitions:   DefaultTransitions(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	for phase, spec := range phases {
		if !phase.valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
		}
		if spec.Duration <= 0 {
			return nil, fmt.Errorf("%w: %s duration must be > 0, got %s", ErrInvalidDuration, phase, spec.Duration)
		}
		if spec.Delay < 0 {
			return nil, fmt.Errorf("%w: %s delay must be >= 0, got %s", ErrInvalidDuration, phase, spec.Delay)
		}
		cfg.phases[phase] = spec
	}
	for _, phase := range Phases() {
		if _, ok := cfg.phases[phase]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPhase, phase)
		}
	}

	for name, d := range map[string]time.Duration{
		"conceal settle": cfg.concealSettle,
		"conceal grace":  cfg.concealGrace,
		"exit settle":    cfg.exitSettle,
		"re-entry delay": cfg.reEntryDelay,
	} {
		if d < 0 {
			return nil, fmt.Errorf("%w: %s must be >= 0, got %s", ErrInvalidDuration, name, d)
		}
	}

	return cfg, nil
}

// Duration returns the duration of phase. An unknown phase is a programming error and panics.
func (c *Config) Duration(phase Phase) time.Duration {
	return c.spec(phase).Duration
}

// Delay returns the optional delay before phase. An unknown phase panics.
func (c *Config) Delay(phase Phase) time.Duration {
	return c.spec(phase).Delay
}

func (c *Config) spec(phase Phase) Spec {
	spec, ok := c.phases[phase]
	if !ok {
		panic(fmt.Sprintf("timing: unknown phase %q", phase))
	}
	return spec
}

// ConcealSettle is the wait between a unit's fade and its positional offset.
func (c *Config) ConcealSettle() time.Duration { return c.concealSettle }

// ConcealGrace is the wait after the last unit's offset before a conceal resolves.
func (c *Config) ConcealGrace() time.Duration { return c.concealGrace }

// ConcealOffset is the transform applied to concealed units.
func (c *Config) ConcealOffset() string { return c.concealOffset }

// ExitSettle is the wait after the exit chain before the scene resets.
func (c *Config) ExitSettle() time.Duration { return c.exitSettle }

// ReEntryDelay is the wait between the scene reset and the title re-entry.
func (c *Config) ReEntryDelay() time.Duration { return c.reEntryDelay }

// Transitions returns the styling-layer transitions.
func (c *Config) Transitions() Transitions { return c.transitions }

// ConcealSpan is the minimum time a conceal of n units takes to resolve.
func (c *Config) ConcealSpan(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	stagger := c.Duration(ElementExit) / time.Duration(n)
	return time.Duration(n-1)*stagger + c.concealSettle + c.concealGrace
}
