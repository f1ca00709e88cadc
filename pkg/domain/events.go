package domain

import (
	"context"
	"time"
)

// TransitionEvent describes a move from one phase to another.
// Elapsed is scheduler time, not wall-clock time.
type TransitionEvent struct {
	Elapsed time.Duration `json:"elapsed"`
	Cycle   int           `json:"cycle"`
	From    Phase         `json:"from"`
	To      Phase         `json:"to"`
	Signal  Signal        `json:"signal"`
	Effects []Effect      `json:"effects,omitempty"`
}

// SignalEvent describes a signal the sequence did not act upon.
type SignalEvent struct {
	Elapsed time.Duration `json:"elapsed"`
	Phase   Phase         `json:"phase"`
	Signal  Signal        `json:"signal"`
	Reason  error         `json:"-"`
}

// CycleEvent describes a completed enter/exit cycle.
type CycleEvent struct {
	Cycle    int           `json:"cycle"`
	Started  time.Duration `json:"started"`
	Finished time.Duration `json:"finished"`
}

// Duration is the time between the entry signal and the end of the cycle.
func (e *CycleEvent) Duration() time.Duration {
	return e.Finished - e.Started
}

// LifecycleHooks defines callbacks for sequencer observability.
type LifecycleHooks struct {
	OnPhaseEnter    func(context.Context, *TransitionEvent)
	OnPhaseLeave    func(context.Context, *TransitionEvent)
	OnSignalIgnored func(context.Context, *SignalEvent)
	OnCycleComplete func(context.Context, *CycleEvent)
}
