package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/reveal/pkg/domain"
)

// Metrics records sequencer activity as Prometheus collectors.
type Metrics struct {
	transitions   *prometheus.CounterVec
	ignored       *prometheus.CounterVec
	phase         *prometheus.GaugeVec
	cycleDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reveal_phase_transitions_total",
				Help: "Total number of phase transitions",
			},
			[]string{"from", "to"},
		),
		ignored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reveal_signals_ignored_total",
				Help: "Signals received in a phase that does not accept them",
			},
			[]string{"signal", "phase"},
		),
		phase: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reveal_phase",
				Help: "Current phase of the sequence (1 for the active phase)",
			},
			[]string{"phase"},
		),
		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reveal_cycle_duration_seconds",
				Help:    "Time from the entry signal to the end of the cycle",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
		),
	}

	for _, c := range []prometheus.Collector{m.transitions, m.ignored, m.phase, m.cycleDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	for _, p := range domain.Phases() {
		m.phase.WithLabelValues(string(p)).Set(0)
	}
	m.phase.WithLabelValues(string(domain.PhaseIdle)).Set(1)
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseEnter: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
			m.phase.WithLabelValues(string(e.From)).Set(0)
			m.phase.WithLabelValues(string(e.To)).Set(1)
		},
		OnSignalIgnored: func(_ context.Context, e *domain.SignalEvent) {
			m.ignored.WithLabelValues(string(e.Signal.Kind), string(e.Phase)).Inc()
		},
		OnCycleComplete: func(_ context.Context, e *domain.CycleEvent) {
			m.cycleDuration.Observe(e.Duration().Seconds())
		},
	}
}
