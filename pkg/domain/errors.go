package domain

import "errors"

// ErrUnhandledSignal is returned when a signal is received in a phase that does not accept it.
var ErrUnhandledSignal = errors.New("unhandled signal")

// ErrUnknownSignal is returned when a signal name cannot be parsed.
var ErrUnknownSignal = errors.New("unknown signal")

// ErrAlreadyStarted is returned when a sequence is started twice.
var ErrAlreadyStarted = errors.New("sequence already started")
