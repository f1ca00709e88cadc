package domain

import (
	"fmt"
	"time"
)

// EffectKind identifies a side-effect requested by the sequence machine.
type EffectKind string

const (
	// EffectDecompose splits every text target into animatable units.
	EffectDecompose EffectKind = "decompose"
	// EffectRevealIn staggers a group in. Duration is the total stagger span,
	// Delay is added to the running start offset of the chain.
	EffectRevealIn EffectKind = "reveal_in"
	// EffectRevealOut conceals a group and suspends the chain until it resolves.
	EffectRevealOut EffectKind = "reveal_out"
	// EffectWait suspends the chain for Duration.
	EffectWait EffectKind = "wait"
	// EffectAdvanceScene moves the page to SceneTwo.
	EffectAdvanceScene EffectKind = "advance_scene"
	// EffectResetScene moves the page back to SceneOne.
	EffectResetScene EffectKind = "reset_scene"
	// EffectSetDecorativeFlag adds Flag to the decorative element.
	EffectSetDecorativeFlag EffectKind = "set_decorative_flag"
	// EffectClearDecorativeFlags removes every flag the sequence set on the decorative element.
	EffectClearDecorativeFlags EffectKind = "clear_decorative_flags"
	// EffectEndCycle closes the current cycle and resets the sequence state.
	EffectEndCycle EffectKind = "end_cycle"
)

// Target names a text block the orchestrator holds a handle to.
type Target string

const (
	TargetTitle      Target = "title"
	TargetSubtitle1  Target = "subtitle-1"
	TargetValueGroup Target = "value-group"
	TargetSubtitle2  Target = "subtitle-2"
)

// Targets returns every text target in document order.
func Targets() []Target {
	return []Target{TargetTitle, TargetSubtitle1, TargetValueGroup, TargetSubtitle2}
}

// Effect is a structural description of one step the orchestrator performs.
type Effect struct {
	Kind     EffectKind    `json:"kind"`
	Target   Target        `json:"target,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Delay    time.Duration `json:"delay,omitempty"`
	Flag     string        `json:"flag,omitempty"`
}

// Suspends reports whether the chain must wait for this effect before running the next one.
func (e Effect) Suspends() bool {
	return e.Kind == EffectRevealOut || e.Kind == EffectWait
}

func (e Effect) String() string {
	switch e.Kind {
	case EffectRevealIn:
		return fmt.Sprintf("%s(%s, %s)", e.Kind, e.Target, e.Duration)
	case EffectRevealOut:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Target)
	case EffectWait:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Duration)
	case EffectSetDecorativeFlag:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Flag)
	}
	return string(e.Kind)
}
