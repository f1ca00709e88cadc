package sequence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/reveal/internal/logging"
	"github.com/aretw0/reveal/pkg/animator"
	"github.com/aretw0/reveal/pkg/domain"
	"github.com/aretw0/reveal/pkg/ports"
	"github.com/aretw0/reveal/pkg/scene"
)

// Targets are the handles the orchestrator animates, injected at construction.
// Any of them may be nil; effects on a missing target are skipped.
type Targets struct {
	Title      ports.Element
	Subtitle1  ports.Element
	ValueGroup ports.Element
	Subtitle2  ports.Element
	Decorative ports.Element
}

// State is a snapshot of the sequencing state.
type State struct {
	Phase   domain.Phase  `json:"phase"`
	Scene   domain.Scene  `json:"scene"`
	Cycle   int           `json:"cycle"`
	Ignored int           `json:"ignored"`
	Elapsed time.Duration `json:"elapsed"`
}

// Orchestrator runs the sequence. All methods must be called on the
// scheduler's loop; the root package's Engine takes care of that.
type Orchestrator struct {
	rules   Rules
	sched   ports.Scheduler
	anim    *animator.Animator
	scene   *scene.Machine
	targets Targets
	groups  map[domain.Target]*animator.Group

	phase        domain.Phase
	epoch        uint64
	cycle        int
	cycleStarted time.Duration
	ignored      int

	ctx    context.Context
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithRules overrides the timing table and decorative animation name.
func WithRules(rules Rules) Option {
	return func(o *Orchestrator) {
		o.rules = rules
	}
}

// New creates an orchestrator in the Idle phase.
func New(sched ports.Scheduler, anim *animator.Animator, sm *scene.Machine, targets Targets, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		rules:   DefaultRules(),
		sched:   sched,
		anim:    anim,
		scene:   sm,
		targets: targets,
		groups:  make(map[domain.Target]*animator.Group),
		phase:   domain.PhaseIdle,
		ctx:     context.Background(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rules.DecorativeAnimation == "" {
		o.rules.DecorativeAnimation = DefaultDecorativeAnimation
	}
	return o
}

// Start decomposes the text targets and reveals the title.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.phase != domain.PhaseIdle || o.cycle > 0 || len(o.groups) > 0 {
		return domain.ErrAlreadyStarted
	}
	o.ctx = ctx
	return o.Handle(domain.NewSignal(domain.SignalStart))
}

// Handle feeds a signal to the sequence. A signal the current phase does not
// accept is ignored and reported with an error wrapping domain.ErrUnhandledSignal.
func (o *Orchestrator) Handle(sig domain.Signal) error {
	next, effects, err := Transition(o.phase, sig, o.rules)
	if err != nil {
		o.ignore(sig, err)
		return err
	}

	if next == o.phase {
		// Effects that keep the phase never suspend; they run beside the chain in flight.
		o.run(o.epoch, effects, 0)
		return nil
	}

	o.enter(next, sig, effects)
	return nil
}

// Snapshot returns the current sequencing state.
func (o *Orchestrator) Snapshot() State {
	return State{
		Phase:   o.phase,
		Scene:   o.scene.Current(),
		Cycle:   o.cycle,
		Ignored: o.ignored,
		Elapsed: o.sched.Now(),
	}
}

// Group returns the decomposed group of a target, nil before Start or when the target is missing.
func (o *Orchestrator) Group(target domain.Target) *animator.Group {
	return o.groups[target]
}

func (o *Orchestrator) ignore(sig domain.Signal, reason error) {
	o.ignored++
	o.logger.Debug("signal ignored", "signal", sig.String(), "phase", o.phase, "reason", reason)
	if o.hooks.OnSignalIgnored != nil {
		o.hooks.OnSignalIgnored(o.ctx, &domain.SignalEvent{
			Elapsed: o.sched.Now(),
			Phase:   o.phase,
			Signal:  sig,
			Reason:  reason,
		})
	}
}

func (o *Orchestrator) enter(next domain.Phase, sig domain.Signal, effects []domain.Effect) {
	event := &domain.TransitionEvent{
		Elapsed: o.sched.Now(),
		Cycle:   o.cycle,
		From:    o.phase,
		To:      next,
		Signal:  sig,
		Effects: effects,
	}
	if o.hooks.OnPhaseLeave != nil {
		o.hooks.OnPhaseLeave(o.ctx, event)
	}

	if sig.Kind == domain.SignalEntryFinished {
		o.cycleStarted = event.Elapsed
	}
	o.phase = next
	o.epoch++
	o.logger.Debug("phase entered", "from", event.From, "to", next, "signal", sig.String(), "effects", len(effects))

	if o.hooks.OnPhaseEnter != nil {
		o.hooks.OnPhaseEnter(o.ctx, event)
	}

	epoch := o.epoch
	if !o.run(epoch, effects, 0) {
		o.complete(epoch)
	}
}

// run executes effects in order. offset is the running start delay of the
// chain's reveal-in steps. It reports whether it stopped at a suspending
// effect whose continuation is now scheduled. Effects on missing targets
// are skipped and never suspend.
func (o *Orchestrator) run(epoch uint64, effects []domain.Effect, offset time.Duration) bool {
	for i, e := range effects {
		if epoch != o.epoch {
			return true
		}
		rest := effects[i+1:]

		switch e.Kind {
		case domain.EffectDecompose:
			o.decompose()

		case domain.EffectRevealIn:
			group := o.group(e.Target)
			if group == nil {
				continue
			}
			offset = o.anim.RevealIn(group, e.Duration, offset+e.Delay)

		case domain.EffectRevealOut:
			group := o.group(e.Target)
			if group == nil {
				continue
			}
			o.anim.RevealOut(group).Then(func() {
				o.resume(epoch, rest, offset)
			})
			return true

		case domain.EffectWait:
			o.sched.Schedule(e.Duration, func() {
				o.resume(epoch, rest, offset)
			})
			return true

		case domain.EffectAdvanceScene:
			o.scene.Advance()

		case domain.EffectResetScene:
			o.scene.Reset()

		case domain.EffectSetDecorativeFlag:
			if o.targets.Decorative != nil {
				o.targets.Decorative.AddFlag(e.Flag)
			}

		case domain.EffectClearDecorativeFlags:
			if o.targets.Decorative != nil {
				o.targets.Decorative.RemoveFlag(domain.FlagActive)
				o.targets.Decorative.RemoveFlag(domain.FlagRemoving)
			}

		case domain.EffectEndCycle:
			o.endCycle()
		}
	}
	return false
}

// resume continues a suspended chain and completes the phase once the chain is exhausted.
func (o *Orchestrator) resume(epoch uint64, rest []domain.Effect, offset time.Duration) {
	if epoch != o.epoch {
		return
	}
	if !o.run(epoch, rest, offset) {
		o.complete(epoch)
	}
}

func (o *Orchestrator) complete(epoch uint64) {
	if epoch != o.epoch {
		return
	}
	if err := o.Handle(domain.NewSignal(domain.SignalPhaseComplete)); err != nil && !errors.Is(err, domain.ErrUnhandledSignal) {
		o.logger.Error("phase completion failed", "phase", o.phase, "err", err)
	}
}

func (o *Orchestrator) decompose() {
	o.groups[domain.TargetTitle] = o.decomposeTarget(domain.TargetTitle, o.targets.Title, false)
	o.groups[domain.TargetSubtitle1] = o.decomposeTarget(domain.TargetSubtitle1, o.targets.Subtitle1, false)
	o.groups[domain.TargetValueGroup] = o.decomposeTarget(domain.TargetValueGroup, o.targets.ValueGroup, true)
	o.groups[domain.TargetSubtitle2] = o.decomposeTarget(domain.TargetSubtitle2, o.targets.Subtitle2, false)
}

func (o *Orchestrator) decomposeTarget(target domain.Target, el ports.Element, atomic bool) *animator.Group {
	if el == nil {
		o.logger.Warn("target missing, its phases will be skipped", "target", target)
		return nil
	}
	if atomic {
		return o.anim.DecomposeAtomic(el, string(target))
	}
	return o.anim.Decompose(el, string(target))
}

func (o *Orchestrator) group(target domain.Target) *animator.Group {
	group := o.groups[target]
	if group == nil {
		o.logger.Debug("skipping effect on missing target", "target", target, "phase", o.phase)
	}
	return group
}

func (o *Orchestrator) endCycle() {
	event := &domain.CycleEvent{
		Cycle:    o.cycle,
		Started:  o.cycleStarted,
		Finished: o.sched.Now(),
	}
	o.cycle++
	o.cycleStarted = 0
	o.logger.Info("cycle complete", "cycle", event.Cycle, "duration", event.Duration())
	if o.hooks.OnCycleComplete != nil {
		o.hooks.OnCycleComplete(o.ctx, event)
	}
}
