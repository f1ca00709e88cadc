package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/aretw0/reveal/pkg/adapters/http"
	redisAdapter "github.com/aretw0/reveal/pkg/adapters/redis"
	"github.com/aretw0/reveal/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the sequencer on a real-time clock and exposes it over HTTP:
signals are posted to /signals/{name}, the state and the live page markup are
served as JSON and HTML, phase changes stream on /events and metrics are
exported on /metrics. With --redis, signals published on the pub/sub channel
are delivered too.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address to receive signals from (disabled when empty)")
	serveCmd.Flags().String("redis-channel", redisAdapter.DefaultChannel, "Redis pub/sub channel carrying signals")
}

func runServe(cmd *cobra.Command) error {
	port, _ := cmd.Flags().GetString("port")
	redisAddr, _ := cmd.Flags().GetString("redis")
	redisChannel, _ := cmd.Flags().GetString("redis-channel")

	s := readSettings(cmd)
	logger, err := createLogger(s)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(registry)
	if err != nil {
		return err
	}
	streams := observability.NewBroadcaster(observability.WithBroadcastLogger(logger))

	setup, err := newEngine(s, nil, metrics.Hooks(), streams.Hooks())
	if err != nil {
		return err
	}
	engine := setup.Engine

	handler := httpAdapter.NewHandler(engine,
		httpAdapter.WithBroadcaster(streams),
		httpAdapter.WithGatherer(registry),
		httpAdapter.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Request contexts end with the server so event streams close on shutdown.
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     handler,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	g.Go(func() error {
		return engine.Run(ctx)
	})
	if err := engine.Start(ctx); err != nil {
		stop()
		g.Wait()
		return err
	}

	if redisAddr != "" {
		bus := redisAdapter.New(redisAddr,
			redisAdapter.WithChannel(redisChannel),
			redisAdapter.WithLogger(logger),
		)
		defer bus.Close()
		if err := bus.Ping(ctx); err != nil {
			stop()
			g.Wait()
			return err
		}
		g.Go(func() error {
			return bus.Subscribe(ctx, engine)
		})
	}

	g.Go(func() error {
		fmt.Printf("Starting reveal server on %s\n", srv.Addr)
		fmt.Printf("Serving page: %s\n", s.PagePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		fmt.Println("\nStart shutdown...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			return srv.Close()
		}
		fmt.Println("reveal server stopped gracefully")
		return nil
	})

	return g.Wait()
}
