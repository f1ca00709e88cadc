package domain

import (
	"fmt"
	"strings"
)

// SignalKind identifies what happened.
type SignalKind string

const (
	// SignalEntryFinished fires once the page's entrance visual completes.
	SignalEntryFinished SignalKind = "entry-animation-finished"
	// SignalDecorativeFinished fires when a named sub-animation of the decorative element ends.
	SignalDecorativeFinished SignalKind = "decorative-sub-animation-finished"
	// SignalCycleFinished fires once per loop of the ambient looping visual.
	SignalCycleFinished SignalKind = "cycle-animation-finished"

	// SignalStart is raised by the orchestrator itself on initialization.
	SignalStart SignalKind = "start"
	// SignalPhaseComplete is raised by the orchestrator when a phase's effects have finished.
	SignalPhaseComplete SignalKind = "phase-complete"
)

// External reports whether the kind originates outside the sequencer.
func (k SignalKind) External() bool {
	switch k {
	case SignalEntryFinished, SignalDecorativeFinished, SignalCycleFinished:
		return true
	}
	return false
}

// Signal is an animation-completion event.
// Animation carries the sub-animation name for SignalDecorativeFinished.
type Signal struct {
	Kind      SignalKind `json:"kind"`
	Animation string     `json:"animation,omitempty"`
}

// NewSignal builds a signal of the given kind.
func NewSignal(kind SignalKind) Signal {
	return Signal{Kind: kind}
}

// DecorativeFinished builds the decorative sub-animation signal for the named animation.
func DecorativeFinished(animation string) Signal {
	return Signal{Kind: SignalDecorativeFinished, Animation: animation}
}

// String renders the wire form "kind" or "kind:animation".
func (s Signal) String() string {
	if s.Animation == "" {
		return string(s.Kind)
	}
	return string(s.Kind) + ":" + s.Animation
}

// ParseSignal parses the wire form produced by String.
// Only external signals are accepted.
func ParseSignal(raw string) (Signal, error) {
	raw = strings.TrimSpace(raw)
	name, animation, _ := strings.Cut(raw, ":")
	kind := SignalKind(strings.TrimSpace(name))
	if !kind.External() {
		return Signal{}, fmt.Errorf("%w: %q", ErrUnknownSignal, raw)
	}
	return Signal{Kind: kind, Animation: strings.TrimSpace(animation)}, nil
}
