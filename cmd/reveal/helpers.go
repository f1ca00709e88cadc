package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/reveal"
	"github.com/aretw0/reveal/internal/logging"
	"github.com/aretw0/reveal/pkg/adapters/htmldom"
	"github.com/aretw0/reveal/pkg/domain"
	"github.com/aretw0/reveal/pkg/observability"
	"github.com/aretw0/reveal/pkg/ports"
	"github.com/aretw0/reveal/pkg/sequence"
	"github.com/aretw0/reveal/pkg/timing"
)

// settings are the persistent flags shared by every command.
type settings struct {
	PagePath   string
	ConfigPath string
	LogLevel   string
	Decorative string
}

func readSettings(cmd *cobra.Command) settings {
	flags := cmd.Flags()
	page, _ := flags.GetString("page")
	config, _ := flags.GetString("config")
	level, _ := flags.GetString("log-level")
	decorative, _ := flags.GetString("decorative-animation")
	return settings{
		PagePath:   page,
		ConfigPath: config,
		LogLevel:   level,
		Decorative: decorative,
	}
}

func createLogger(s settings) (*slog.Logger, error) {
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

func (s settings) rules(cfg *timing.Config) sequence.Rules {
	return sequence.Rules{Timing: cfg, DecorativeAnimation: s.Decorative}
}

// engineSetup bundles what newEngine loads from the settings.
type engineSetup struct {
	Engine *reveal.Engine
	Page   *htmldom.Document
	Timing *timing.Config
	Logger *slog.Logger
}

// newEngine loads the timing table and the page, then builds an engine
// on sched. Log hooks always run first, followed by the given hooks.
// A nil sched selects the real-time loop.
func newEngine(s settings, sched ports.Scheduler, hooks ...domain.LifecycleHooks) (*engineSetup, error) {
	logger, err := createLogger(s)
	if err != nil {
		return nil, err
	}

	cfg, err := timing.Load(s.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load timing: %w", err)
	}

	page, err := htmldom.Open(s.PagePath)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	opts := []reveal.Option{
		reveal.WithTiming(cfg),
		reveal.WithDecorativeAnimation(s.Decorative),
		reveal.WithLifecycleHooks(observability.Chain(append([]domain.LifecycleHooks{observability.LogHooks(logger)}, hooks...)...)),
		reveal.WithLogger(logger),
	}
	if sched != nil {
		opts = append(opts, reveal.WithScheduler(sched))
	}

	engine, err := reveal.New(page, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing reveal: %w", err)
	}

	return &engineSetup{Engine: engine, Page: page, Timing: cfg, Logger: logger}, nil
}
