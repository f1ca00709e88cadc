// Package scene holds the two-state scene machine of the page.
package scene

import (
	"log/slog"

	"github.com/aretw0/reveal/internal/logging"
	"github.com/aretw0/reveal/pkg/domain"
	"github.com/aretw0/reveal/pkg/ports"
)

// Machine toggles the scene flags on the page root. It is the only writer of those flags.
type Machine struct {
	root    ports.FlagSet
	current domain.Scene
	logger  *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New starts the machine in SceneOne and applies its flag to root.
// A nil root keeps the state without presenting it.
func New(root ports.FlagSet, opts ...Option) *Machine {
	m := &Machine{
		root:   root,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.apply(domain.SceneOne)
	return m
}

// Current returns the active scene.
func (m *Machine) Current() domain.Scene {
	return m.current
}

// Advance moves SceneOne to SceneTwo. It is a no-op in SceneTwo.
func (m *Machine) Advance() {
	if m.current == domain.SceneTwo {
		return
	}
	m.apply(domain.SceneTwo)
}

// Reset moves SceneTwo back to SceneOne. It is a no-op in SceneOne.
func (m *Machine) Reset() {
	if m.current == domain.SceneOne {
		return
	}
	m.apply(domain.SceneOne)
}

func (m *Machine) apply(s domain.Scene) {
	m.current = s
	if m.root != nil {
		other := domain.SceneTwo
		if s == domain.SceneTwo {
			other = domain.SceneOne
		}
		m.root.RemoveFlag(other.Flag())
		m.root.AddFlag(s.Flag())
	}
	m.logger.Debug("scene applied", "scene", s)
}
