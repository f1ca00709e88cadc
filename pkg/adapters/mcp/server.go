package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/reveal"
	"github.com/aretw0/reveal/internal/logging"
	"github.com/aretw0/reveal/internal/presentation/graph"
	"github.com/aretw0/reveal/pkg/domain"
	"github.com/aretw0/reveal/pkg/sequence"
)

// SignalResponse reports what the sequencer did with a signal.
type SignalResponse struct {
	Signal   string         `json:"signal" jsonschema_description:"The signal in wire form"`
	Accepted bool           `json:"accepted" jsonschema_description:"False when the current phase ignored the signal"`
	Reason   string         `json:"reason,omitempty" jsonschema_description:"Why the signal was ignored"`
	State    sequence.State `json:"state" jsonschema_description:"The sequencing state after the signal"`
}

// Engine defines the interface required by the MCP server to drive the sequencer.
type Engine interface {
	Signal(ctx context.Context, sig domain.Signal) error
	Snapshot(ctx context.Context) (sequence.State, error)
	RenderPage(ctx context.Context, w io.Writer) error
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	rules     sequence.Rules
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithRules sets the rules the phase graph resource is drawn from.
func WithRules(rules sequence.Rules) Option {
	return func(s *Server) {
		s.rules = rules
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		rules:     sequence.DefaultRules(),
		mcpServer: server.NewMCPServer("reveal-mcp", strings.TrimSpace(reveal.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE until ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: send_signal
	signalTool := mcp.NewTool("send_signal",
		mcp.WithDescription("Deliver an animation-completion signal to the sequencer."),
		mcp.WithString("signal", mcp.Required(),
			mcp.Description("Signal name"),
			mcp.Enum(
				string(domain.SignalEntryFinished),
				string(domain.SignalDecorativeFinished),
				string(domain.SignalCycleFinished),
			),
		),
		mcp.WithString("animation", mcp.Description("Sub-animation name, for decorative-sub-animation-finished")),
		mcp.WithOutputSchema[SignalResponse](),
	)
	s.mcpServer.AddTool(signalTool, mcp.NewStructuredToolHandler(s.handleSignal))

	// TOOL: get_state
	stateTool := mcp.NewTool("get_state",
		mcp.WithDescription("Get the current phase, scene and cycle count."),
		mcp.WithOutputSchema[sequence.State](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleState))
}

func (s *Server) handleSignal(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SignalResponse, error) {
	raw, _ := args["signal"].(string)
	if animation, _ := args["animation"].(string); animation != "" {
		raw += ":" + animation
	}

	sig, err := domain.ParseSignal(raw)
	if err != nil {
		return SignalResponse{}, err
	}

	resp := SignalResponse{Signal: sig.String(), Accepted: true}
	if err := s.engine.Signal(ctx, sig); err != nil {
		if !errors.Is(err, domain.ErrUnhandledSignal) {
			return SignalResponse{}, fmt.Errorf("signal failed: %w", err)
		}
		resp.Accepted = false
		resp.Reason = err.Error()
	}

	resp.State, err = s.engine.Snapshot(ctx)
	if err != nil {
		return SignalResponse{}, fmt.Errorf("snapshot failed: %w", err)
	}
	return resp, nil
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (sequence.State, error) {
	state, err := s.engine.Snapshot(ctx)
	if err != nil {
		return sequence.State{}, fmt.Errorf("snapshot failed: %w", err)
	}
	return state, nil
}

func (s *Server) registerResources() {
	// EXPOSE: reveal://graph
	s.mcpServer.AddResource(mcp.NewResource("reveal://graph", "Phase Machine",
		mcp.WithMIMEType("text/vnd.mermaid"),
	), s.handleGraphResource)

	// EXPOSE: reveal://page
	s.mcpServer.AddResource(mcp.NewResource("reveal://page", "Current Page Markup",
		mcp.WithMIMEType("text/html"),
	), s.handlePageResource)
}

func (s *Server) handleGraphResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var overlay *graph.GraphOverlay
	if state, err := s.engine.Snapshot(ctx); err == nil {
		overlay = &graph.GraphOverlay{CurrentPhase: state.Phase}
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "reveal://graph",
			MIMEType: "text/vnd.mermaid",
			Text:     graph.GenerateMermaid(sequence.Edges(s.rules), overlay),
		},
	}, nil
}

func (s *Server) handlePageResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var sb strings.Builder
	if err := s.engine.RenderPage(ctx, &sb); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "reveal://page",
			MIMEType: "text/html",
			Text:     sb.String(),
		},
	}, nil
}
