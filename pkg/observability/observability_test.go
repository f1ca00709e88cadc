package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/reveal/pkg/domain"
)

var (
	entry = &domain.TransitionEvent{
		Elapsed: time.Second,
		From:    domain.PhaseTitleRevealed,
		To:      domain.PhaseSceneTwoEntering,
		Signal:  domain.NewSignal(domain.SignalEntryFinished),
	}
	dropped = &domain.SignalEvent{
		Phase:  domain.PhaseExitingSceneTwo,
		Signal: domain.NewSignal(domain.SignalCycleFinished),
		Reason: domain.ErrUnhandledSignal,
	}
	cycle = &domain.CycleEvent{Cycle: 0, Started: time.Second, Finished: 4 * time.Second}
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	hooks.OnPhaseEnter(ctx, entry)
	hooks.OnPhaseEnter(ctx, entry)
	hooks.OnSignalIgnored(ctx, dropped)
	hooks.OnCycleComplete(ctx, cycle)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("title_revealed", "scene_two_entering")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ignored.WithLabelValues("cycle-animation-finished", "exiting_scene_two")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.phase.WithLabelValues("scene_two_entering")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.phase.WithLabelValues("title_revealed")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.cycleDuration))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice fails")
}

func TestChain(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnPhaseEnter: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnPhaseEnter:    func(context.Context, *domain.TransitionEvent) { calls = append(calls, "b") },
		OnCycleComplete: func(context.Context, *domain.CycleEvent) { calls = append(calls, "cycle") },
	}

	hooks := Chain(a, domain.LifecycleHooks{}, b)
	hooks.OnPhaseEnter(context.Background(), entry)
	hooks.OnCycleComplete(context.Background(), cycle)

	assert.Equal(t, []string{"a", "b", "cycle"}, calls)
	assert.Nil(t, hooks.OnPhaseLeave)
	assert.Nil(t, hooks.OnSignalIgnored)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	hooks := LogHooks(logger)
	hooks.OnPhaseEnter(context.Background(), entry)
	hooks.OnSignalIgnored(context.Background(), dropped)
	hooks.OnCycleComplete(context.Background(), cycle)

	out := buf.String()
	assert.Contains(t, out, `"msg":"phase_enter"`)
	assert.Contains(t, out, `"to":"scene_two_entering"`)
	assert.Contains(t, out, `"msg":"signal_ignored"`)
	assert.Contains(t, out, `"msg":"cycle_complete"`)
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster(WithBuffer(1))
	ch, cancel := b.Subscribe()
	assert.Equal(t, 1, b.Subscribers())

	hooks := b.Hooks()
	hooks.OnSignalIgnored(context.Background(), dropped)
	hooks.OnPhaseEnter(context.Background(), entry) // dropped, buffer full

	var got Event
	require.NoError(t, json.Unmarshal([]byte(<-ch), &got))
	assert.Equal(t, EventIgnored, got.Type)
	require.NotNil(t, got.Ignored)
	assert.Equal(t, domain.PhaseExitingSceneTwo, got.Ignored.Phase)
	assert.Equal(t, "unhandled signal", got.Ignored.Reason)

	select {
	case msg := <-ch:
		t.Fatalf("unexpected message %s", msg)
	default:
	}

	hooks.OnPhaseEnter(context.Background(), entry)
	require.NoError(t, json.Unmarshal([]byte(<-ch), &got))
	assert.Equal(t, EventTransition, got.Type)
	assert.Equal(t, domain.PhaseSceneTwoEntering, got.Transition.To)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers())
}

func TestIgnoredSignal_NilReason(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Hooks().OnSignalIgnored(context.Background(), &domain.SignalEvent{Phase: domain.PhaseIdle})
	assert.Contains(t, <-ch, `"reason":""`)
}
