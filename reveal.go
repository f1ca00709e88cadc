package reveal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/reveal/internal/logging"
	"github.com/aretw0/reveal/pkg/animator"
	"github.com/aretw0/reveal/pkg/clock"
	"github.com/aretw0/reveal/pkg/domain"
	"github.com/aretw0/reveal/pkg/ports"
	"github.com/aretw0/reveal/pkg/scene"
	"github.com/aretw0/reveal/pkg/sequence"
	"github.com/aretw0/reveal/pkg/timing"
)

// ErrNotRenderable is returned by RenderPage when the page cannot serialize itself.
var ErrNotRenderable = errors.New("page cannot be rendered")

// Selectors are the classes used to resolve the animated elements of a page.
type Selectors struct {
	Title      string `yaml:"title" mapstructure:"title"`
	Subtitle   string `yaml:"subtitle" mapstructure:"subtitle"`
	ValueGroup string `yaml:"value_group" mapstructure:"value_group"`
	Decorative string `yaml:"decorative" mapstructure:"decorative"`
}

// DefaultSelectors returns the classes of the reference page.
func DefaultSelectors() Selectors {
	return Selectors{
		Title:      "frame__title",
		Subtitle:   "frame__subtitle",
		ValueGroup: "frame__value-group",
		Decorative: "frame__circle-text",
	}
}

// Engine is the high-level entry point of the sequencer.
// It binds a page to an orchestrator and marshals every call onto the scheduler.
type Engine struct {
	page       ports.Page
	sched      ports.Scheduler
	timing     *timing.Config
	selectors  Selectors
	decorative string
	hooks      domain.LifecycleHooks
	logger     *slog.Logger

	orch *sequence.Orchestrator
}

var _ ports.SignalSink = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithScheduler sets the scheduler. Defaults to a real-time clock.Loop, driven by Run.
func WithScheduler(s ports.Scheduler) Option {
	return func(e *Engine) {
		e.sched = s
	}
}

// WithTiming sets the phase timing table.
func WithTiming(cfg *timing.Config) Option {
	return func(e *Engine) {
		e.timing = cfg
	}
}

// WithSelectors overrides the classes used to find the animated elements.
func WithSelectors(s Selectors) Option {
	return func(e *Engine) {
		e.selectors = s
	}
}

// WithDecorativeAnimation sets the sub-animation name that marks the decorative element as removing.
func WithDecorativeAnimation(name string) Option {
	return func(e *Engine) {
		e.decorative = name
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New resolves the animated elements of page and builds the engine.
// Missing elements are tolerated; their phases are skipped.
func New(page ports.Page, opts ...Option) (*Engine, error) {
	if page == nil {
		return nil, fmt.Errorf("page is required")
	}

	e := &Engine{
		page:       page,
		selectors:  DefaultSelectors(),
		decorative: sequence.DefaultDecorativeAnimation,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.timing == nil {
		e.timing = timing.Default()
	}
	if e.sched == nil {
		e.sched = clock.NewLoop(clock.WithLoopLogger(e.logger))
	}

	e.orch = sequence.New(
		e.sched,
		animator.New(e.sched, e.timing, animator.WithLogger(e.logger)),
		scene.New(page.Root(), scene.WithLogger(e.logger)),
		e.resolveTargets(),
		sequence.WithRules(sequence.Rules{Timing: e.timing, DecorativeAnimation: e.decorative}),
		sequence.WithLifecycleHooks(e.hooks),
		sequence.WithLogger(e.logger),
	)
	return e, nil
}

func (e *Engine) resolveTargets() sequence.Targets {
	targets := sequence.Targets{
		Title:      e.page.Find(e.selectors.Title),
		ValueGroup: e.page.Find(e.selectors.ValueGroup),
		Decorative: e.page.Find(e.selectors.Decorative),
	}

	subtitles := e.page.FindAll(e.selectors.Subtitle)
	if len(subtitles) > 0 {
		targets.Subtitle1 = subtitles[0]
	}
	if len(subtitles) > 1 {
		targets.Subtitle2 = subtitles[1]
	}
	if len(subtitles) != 2 {
		e.logger.Warn("unexpected subtitle count", "class", e.selectors.Subtitle, "found", len(subtitles))
	}
	return targets
}

// Run drives the scheduler when it is an event loop and blocks until ctx ends.
// Other schedulers are driven by their owner; Run then only waits for ctx.
func (e *Engine) Run(ctx context.Context) error {
	if loop, ok := e.sched.(*clock.Loop); ok {
		return loop.Run(ctx)
	}
	<-ctx.Done()
	return nil
}

// Start decomposes the text and reveals the title.
func (e *Engine) Start(ctx context.Context) error {
	var startErr error
	if err := e.sched.Call(ctx, func() {
		startErr = e.orch.Start(ctx)
	}); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return startErr
}

// Signal delivers an external signal. Signals the current phase does not
// accept return an error wrapping domain.ErrUnhandledSignal and are otherwise ignored.
func (e *Engine) Signal(ctx context.Context, sig domain.Signal) error {
	if !sig.Kind.External() {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSignal, sig)
	}

	var handleErr error
	if err := e.sched.Call(ctx, func() {
		handleErr = e.orch.Handle(sig)
	}); err != nil {
		return fmt.Errorf("deliver %s: %w", sig, err)
	}
	return handleErr
}

// Snapshot returns the current sequencing state.
func (e *Engine) Snapshot(ctx context.Context) (sequence.State, error) {
	var state sequence.State
	if err := e.sched.Call(ctx, func() {
		state = e.orch.Snapshot()
	}); err != nil {
		return sequence.State{}, err
	}
	return state, nil
}

// RenderPage writes the current page markup to w.
func (e *Engine) RenderPage(ctx context.Context, w io.Writer) error {
	renderer, ok := e.page.(ports.Renderer)
	if !ok {
		return ErrNotRenderable
	}

	var buf bytes.Buffer
	var renderErr error
	if err := e.sched.Call(ctx, func() {
		renderErr = renderer.Render(&buf)
	}); err != nil {
		return err
	}
	if renderErr != nil {
		return fmt.Errorf("render page: %w", renderErr)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Timing returns the timing table in use.
func (e *Engine) Timing() *timing.Config {
	return e.timing
}

// Scheduler returns the scheduler the engine runs on.
func (e *Engine) Scheduler() ports.Scheduler {
	return e.sched
}
