package sequence

import (
	"fmt"

	"github.com/aretw0/reveal/pkg/domain"
	"github.com/aretw0/reveal/pkg/timing"
)

// DefaultDecorativeAnimation is the decorative sub-animation the sequence reacts to.
const DefaultDecorativeAnimation = "stickerSlap"

// Rules are the immutable inputs of Transition besides phase and signal.
type Rules struct {
	Timing              *timing.Config
	DecorativeAnimation string
}

// DefaultRules uses the default timing table and decorative animation.
func DefaultRules() Rules {
	return Rules{Timing: timing.Default(), DecorativeAnimation: DefaultDecorativeAnimation}
}

// Transition computes the next phase and the effects to run for a signal.
// When the phase does not accept the signal it returns the current phase and
// an error wrapping domain.ErrUnhandledSignal. Effects that keep the phase
// (decorative flag changes) are returned with next == phase.
func Transition(phase domain.Phase, sig domain.Signal, rules Rules) (domain.Phase, []domain.Effect, error) {
	cfg := rules.Timing

	switch sig.Kind {
	case domain.SignalStart:
		if phase == domain.PhaseIdle {
			return domain.PhaseTitleRevealed, []domain.Effect{
				{Kind: domain.EffectDecompose},
				revealIn(cfg, domain.TargetTitle, timing.TitleIn),
			}, nil
		}

	case domain.SignalEntryFinished:
		if phase == domain.PhaseTitleRevealed {
			return domain.PhaseSceneTwoEntering, []domain.Effect{
				{Kind: domain.EffectAdvanceScene},
				{Kind: domain.EffectSetDecorativeFlag, Flag: domain.FlagActive},
				{Kind: domain.EffectRevealOut, Target: domain.TargetTitle},
			}, nil
		}

	case domain.SignalDecorativeFinished:
		if phase.DecorativeActive() && sig.Animation == rules.DecorativeAnimation {
			return phase, []domain.Effect{
				{Kind: domain.EffectSetDecorativeFlag, Flag: domain.FlagRemoving},
			}, nil
		}

	case domain.SignalCycleFinished:
		if phase == domain.PhaseSceneTwoSettled {
			exitDelay := cfg.Duration(timing.ElementExitDelay)
			return domain.PhaseExitingSceneTwo, []domain.Effect{
				{Kind: domain.EffectRevealOut, Target: domain.TargetSubtitle2},
				{Kind: domain.EffectWait, Duration: exitDelay},
				{Kind: domain.EffectRevealOut, Target: domain.TargetValueGroup},
				{Kind: domain.EffectWait, Duration: exitDelay},
				{Kind: domain.EffectRevealOut, Target: domain.TargetSubtitle1},
			}, nil
		}

	case domain.SignalPhaseComplete:
		return complete(phase, cfg)
	}

	return phase, nil, fmt.Errorf("%w: %s in phase %s", domain.ErrUnhandledSignal, sig, phase)
}

func complete(phase domain.Phase, cfg *timing.Config) (domain.Phase, []domain.Effect, error) {
	switch phase {
	case domain.PhaseTitleRevealed, domain.PhaseSceneTwoSettled:
		return phase, nil, nil

	case domain.PhaseSceneTwoEntering:
		return domain.PhaseSceneTwoSettled, []domain.Effect{
			revealIn(cfg, domain.TargetSubtitle1, timing.SubtitleIn),
			revealIn(cfg, domain.TargetValueGroup, timing.ValueGroupIn),
			revealIn(cfg, domain.TargetSubtitle2, timing.SubtitleIn),
		}, nil

	case domain.PhaseExitingSceneTwo:
		return domain.PhaseExitGraceWait, []domain.Effect{
			{Kind: domain.EffectWait, Duration: cfg.ExitSettle()},
		}, nil

	case domain.PhaseExitGraceWait:
		return domain.PhaseResetToSceneOne, []domain.Effect{
			{Kind: domain.EffectResetScene},
			{Kind: domain.EffectClearDecorativeFlags},
		}, nil

	case domain.PhaseResetToSceneOne:
		return domain.PhaseReEntryWait, []domain.Effect{
			{Kind: domain.EffectWait, Duration: cfg.ReEntryDelay()},
		}, nil

	case domain.PhaseReEntryWait:
		return domain.PhaseIdle, []domain.Effect{
			{Kind: domain.EffectEndCycle},
		}, nil

	case domain.PhaseIdle:
		return domain.PhaseTitleRevealed, []domain.Effect{
			revealIn(cfg, domain.TargetTitle, timing.TitleIn),
		}, nil
	}

	return phase, nil, fmt.Errorf("%w: phase-complete in unknown phase %q", domain.ErrUnhandledSignal, phase)
}

func revealIn(cfg *timing.Config, target domain.Target, phase timing.Phase) domain.Effect {
	return domain.Effect{
		Kind:     domain.EffectRevealIn,
		Target:   target,
		Duration: cfg.Duration(phase),
		Delay:    cfg.Delay(phase),
	}
}

// Edge is one transition of the phase graph.
type Edge struct {
	From   domain.Phase
	To     domain.Phase
	Signal domain.SignalKind
}

// Edges enumerates the phase graph by running Transition with every phase and
// signal kind. Self loops without effects are left out.
func Edges(rules Rules) []Edge {
	kinds := []domain.SignalKind{
		domain.SignalStart,
		domain.SignalEntryFinished,
		domain.SignalDecorativeFinished,
		domain.SignalCycleFinished,
		domain.SignalPhaseComplete,
	}

	var edges []Edge
	for _, from := range domain.Phases() {
		for _, kind := range kinds {
			sig := domain.Signal{Kind: kind}
			if kind == domain.SignalDecorativeFinished {
				sig.Animation = rules.DecorativeAnimation
			}
			to, effects, err := Transition(from, sig, rules)
			if err != nil || (to == from && len(effects) == 0) {
				continue
			}
			edges = append(edges, Edge{From: from, To: to, Signal: kind})
		}
	}
	return edges
}
