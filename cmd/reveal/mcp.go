package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/reveal/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the sequencer as an MCP Server.
Agents can send animation signals and read the sequencing state as tools,
and read the phase graph and the live page as resources.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMCP(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "MCP Server execution failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}

func runMCP(cmd *cobra.Command) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	if transport != "stdio" && transport != "sse" {
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	}

	s := readSettings(cmd)
	setup, err := newEngine(s, nil)
	if err != nil {
		return err
	}
	logger := setup.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- setup.Engine.Run(ctx)
	}()
	if err := setup.Engine.Start(ctx); err != nil {
		return err
	}

	srv := mcp.NewServer(setup.Engine, mcp.WithRules(s.rules(setup.Timing)), mcp.WithLogger(logger))

	switch transport {
	case "stdio":
		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger.Info("Starting reveal MCP Server (Stdio)...")
		err = srv.ServeStdio()
	case "sse":
		logger.Info("Starting reveal MCP Server (SSE)", "port", port)
		err = srv.ServeSSE(ctx, port)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}

	stop()
	if loopErr := <-loopDone; err == nil {
		err = loopErr
	}
	if err == nil {
		logger.Info("MCP Server stopped gracefully")
	}
	return err
}
