package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/reveal"
	"github.com/aretw0/reveal/pkg/domain"
	"github.com/aretw0/reveal/pkg/observability"
	"github.com/aretw0/reveal/pkg/sequence"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Signal(ctx context.Context, sig domain.Signal) error {
	return m.Called(sig).Error(0)
}

func (m *MockEngine) Snapshot(ctx context.Context) (sequence.State, error) {
	args := m.Called()
	return args.Get(0).(sequence.State), args.Error(1)
}

func (m *MockEngine) RenderPage(ctx context.Context, w io.Writer) error {
	args := m.Called()
	if html, ok := args.Get(0).(string); ok {
		io.WriteString(w, html)
	}
	return args.Error(1)
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestGetHealth(t *testing.T) {
	w := serve(t, NewHandler(&MockEngine{}), "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetInfo(t *testing.T) {
	w := serve(t, NewHandler(&MockEngine{}), "GET", "/info")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), reveal.Version)
}

func TestGetState(t *testing.T) {
	eng := &MockEngine{}
	eng.On("Snapshot").Return(sequence.State{
		Phase:   domain.PhaseSceneTwoSettled,
		Scene:   domain.SceneTwo,
		Cycle:   2,
		Elapsed: time.Second,
	}, nil)

	w := serve(t, NewHandler(eng), "GET", "/state")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"phase":"scene_two_settled","scene":"scene-two","cycle":2,"ignored":0,"elapsed":1000000000}`, w.Body.String())
}

func TestPostSignal(t *testing.T) {
	settled := sequence.State{Phase: domain.PhaseSceneTwoSettled, Scene: domain.SceneTwo}

	cases := []struct {
		name   string
		target string
		sig    *domain.Signal
		err    error
		code   int
	}{
		{
			name:   "accepted",
			target: "/signals/entry-animation-finished",
			sig:    &domain.Signal{Kind: domain.SignalEntryFinished},
			code:   http.StatusAccepted,
		},
		{
			name:   "decorative with animation",
			target: "/signals/decorative-sub-animation-finished?animation=stickerSlap",
			sig:    &domain.Signal{Kind: domain.SignalDecorativeFinished, Animation: "stickerSlap"},
			code:   http.StatusAccepted,
		},
		{
			name:   "ignored",
			target: "/signals/cycle-animation-finished",
			sig:    &domain.Signal{Kind: domain.SignalCycleFinished},
			err:    fmt.Errorf("%w: test", domain.ErrUnhandledSignal),
			code:   http.StatusConflict,
		},
		{
			name:   "loop stopped",
			target: "/signals/cycle-animation-finished",
			sig:    &domain.Signal{Kind: domain.SignalCycleFinished},
			err:    context.Canceled,
			code:   http.StatusServiceUnavailable,
		},
		{
			name:   "unknown",
			target: "/signals/phase-complete",
			code:   http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eng := &MockEngine{}
			if tc.sig != nil {
				eng.On("Signal", *tc.sig).Return(tc.err)
			}
			eng.On("Snapshot").Return(settled, nil).Maybe()

			w := serve(t, NewHandler(eng), "POST", tc.target)
			assert.Equal(t, tc.code, w.Code, w.Body.String())
			if tc.code == http.StatusAccepted {
				assert.Contains(t, w.Body.String(), `"phase":"scene_two_settled"`)
			}
			eng.AssertExpectations(t)
		})
	}
}

func TestGetPage(t *testing.T) {
	eng := &MockEngine{}
	eng.On("RenderPage").Return("<html></html>", nil).Once()
	eng.On("RenderPage").Return(nil, reveal.ErrNotRenderable).Once()

	h := NewHandler(eng)
	w := serve(t, h, "GET", "/page")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<html></html>", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = serve(t, h, "GET", "/page")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	m.Hooks().OnPhaseEnter(context.Background(), &domain.TransitionEvent{From: domain.PhaseIdle, To: domain.PhaseTitleRevealed})

	w := serve(t, NewHandler(&MockEngine{}, WithGatherer(reg)), "GET", "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `reveal_phase_transitions_total{from="idle",to="title_revealed"} 1`)

	w = serve(t, NewHandler(&MockEngine{}), "GET", "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeEvents_Disabled(t *testing.T) {
	w := serve(t, NewHandler(&MockEngine{}), "GET", "/events")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeEvents(t *testing.T) {
	streams := observability.NewBroadcaster()
	srv := httptest.NewServer(NewHandler(&MockEngine{}, WithBroadcaster(streams)))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	assert.Eventually(t, func() bool { return streams.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	streams.Hooks().OnPhaseEnter(ctx, &domain.TransitionEvent{
		From: domain.PhaseTitleRevealed,
		To:   domain.PhaseSceneTwoEntering,
	})

	reader := bufio.NewReader(resp.Body)
	var data []string
	for len(data) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data: ")))
		}
	}

	assert.Equal(t, "connected", data[0])
	var event observability.Event
	require.NoError(t, json.Unmarshal([]byte(data[1]), &event))
	assert.Equal(t, observability.EventTransition, event.Type)
	assert.Equal(t, domain.PhaseSceneTwoEntering, event.Transition.To)
}
