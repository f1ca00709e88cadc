package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/reveal"
	"github.com/aretw0/reveal/internal/logging"
	"github.com/aretw0/reveal/pkg/domain"
	"github.com/aretw0/reveal/pkg/observability"
	"github.com/aretw0/reveal/pkg/sequence"
)

// Engine defines the interface for the sequencer core.
type Engine interface {
	Signal(ctx context.Context, sig domain.Signal) error
	Snapshot(ctx context.Context) (sequence.State, error)
	RenderPage(ctx context.Context, w io.Writer) error
}

// Server serves the sequencer over HTTP.
type Server struct {
	Engine   Engine
	Streams  *observability.Broadcaster
	Gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithBroadcaster enables GET /events, streaming the broadcaster's events.
func WithBroadcaster(b *observability.Broadcaster) Option {
	return func(s *Server) {
		s.Streams = b
	}
}

// WithGatherer enables GET /metrics for the given registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/state", server.GetState)
	r.Get("/page", server.GetPage)
	r.Post("/signals/{name}", server.PostSignal)
	r.Get("/events", server.SubscribeEvents)
	r.Get("/openapi.json", server.GetOpenAPI)
	if server.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "reveal-http",
		"version": strings.TrimSpace(reveal.Version),
	})
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.Engine.Snapshot(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("State error: %v", err), http.StatusServiceUnavailable)
		s.logger.Error("snapshot failed", "err", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// GetPage handles the GET /page request.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	var buf strings.Builder
	err := s.Engine.RenderPage(r.Context(), &buf)
	switch {
	case errors.Is(err, reveal.ErrNotRenderable):
		http.Error(w, "Page rendering not supported", http.StatusNotImplemented)
		return
	case err != nil:
		http.Error(w, fmt.Sprintf("Render error: %v", err), http.StatusInternalServerError)
		s.logger.Error("page render failed", "err", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, buf.String())
}

// PostSignal handles the POST /signals/{name} request.
// The decorative sub-animation name is passed as ?animation=.
func (s *Server) PostSignal(w http.ResponseWriter, r *http.Request) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter name: %v", err), http.StatusBadRequest)
		return
	}

	var animation *string
	if err := runtime.BindQueryParameter("form", true, false, "animation", r.URL.Query(), &animation); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter animation: %v", err), http.StatusBadRequest)
		return
	}

	raw := name
	if animation != nil && *animation != "" {
		raw += ":" + *animation
	}

	sig, err := domain.ParseSignal(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid signal: %v", err), http.StatusBadRequest)
		s.logger.Warn("signal rejected", "signal", raw, "err", err)
		return
	}

	err = s.Engine.Signal(r.Context(), sig)
	switch {
	case errors.Is(err, domain.ErrUnhandledSignal):
		http.Error(w, fmt.Sprintf("Signal ignored: %v", err), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, fmt.Sprintf("Signal error: %v", err), http.StatusServiceUnavailable)
		s.logger.Error("signal failed", "signal", sig.String(), "err", err)
		return
	}

	state, err := s.Engine.Snapshot(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("State error: %v", err), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusAccepted, state)
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	if s.Streams == nil {
		http.Error(w, "Event streaming not enabled", http.StatusNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()
	s.logger.Info("sse client connected")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("sse client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
