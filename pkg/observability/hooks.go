package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/reveal/pkg/domain"
)

// Chain combines hooks. Callbacks run in the order the hooks are given.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnPhaseEnter = chainTransition(out.OnPhaseEnter, h.OnPhaseEnter)
		out.OnPhaseLeave = chainTransition(out.OnPhaseLeave, h.OnPhaseLeave)
		out.OnSignalIgnored = chainSignal(out.OnSignalIgnored, h.OnSignalIgnored)
		out.OnCycleComplete = chainCycle(out.OnCycleComplete, h.OnCycleComplete)
	}
	return out
}

func chainTransition(a, b func(context.Context, *domain.TransitionEvent)) func(context.Context, *domain.TransitionEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.TransitionEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainSignal(a, b func(context.Context, *domain.SignalEvent)) func(context.Context, *domain.SignalEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.SignalEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainCycle(a, b func(context.Context, *domain.CycleEvent)) func(context.Context, *domain.CycleEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.CycleEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LogHooks logs phase changes and completed cycles at info level and ignored signals at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseEnter: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "phase_enter",
				"from", e.From,
				"to", e.To,
				"signal", e.Signal.String(),
				"elapsed", e.Elapsed,
			)
		},
		OnSignalIgnored: func(ctx context.Context, e *domain.SignalEvent) {
			logger.DebugContext(ctx, "signal_ignored",
				"signal", e.Signal.String(),
				"phase", e.Phase,
			)
		},
		OnCycleComplete: func(ctx context.Context, e *domain.CycleEvent) {
			logger.InfoContext(ctx, "cycle_complete",
				"cycle", e.Cycle,
				"duration", e.Duration(),
			)
		},
	}
}
