package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/reveal/internal/presentation/tui"
	"github.com/aretw0/reveal/pkg/clock"
	"github.com/aretw0/reveal/pkg/domain"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay full cycles on a virtual clock and print the timeline",
	Long: `Runs the sequence against the page on a virtual clock, emitting the entry,
decorative and cycle signals at fixed offsets, and prints every phase change
with its scheduler time. No real time passes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSimulate(cmd); err != nil {
			fmt.Printf("Simulation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Int("cycles", 2, "Number of scene cycles to play")
	simulateCmd.Flags().Duration("entry-after", time.Second, "Delay before each entry-animation-finished signal")
	simulateCmd.Flags().Duration("cycle-after", 2*time.Second, "Delay between entry and cycle-animation-finished")
	simulateCmd.Flags().Bool("report", false, "Print a markdown report instead of the plain timeline")
	simulateCmd.Flags().StringP("output", "o", "", "Write the final page markup to this file")
}

func runSimulate(cmd *cobra.Command) error {
	cycles, _ := cmd.Flags().GetInt("cycles")
	entryAfter, _ := cmd.Flags().GetDuration("entry-after")
	cycleAfter, _ := cmd.Flags().GetDuration("cycle-after")
	report, _ := cmd.Flags().GetBool("report")
	output, _ := cmd.Flags().GetString("output")

	if cycles < 1 {
		return fmt.Errorf("cycles must be at least 1, got %d", cycles)
	}

	s := readSettings(cmd)
	virtual := clock.NewVirtual()
	timeline := tui.NewTimeline()

	setup, err := newEngine(s, virtual, timeline.Hooks())
	if err != nil {
		return err
	}

	ctx := context.Background()
	engine := setup.Engine
	if err := engine.Start(ctx); err != nil {
		return err
	}

	deliver := func(sig domain.Signal) error {
		err := engine.Signal(ctx, sig)
		if errors.Is(err, domain.ErrUnhandledSignal) {
			return nil
		}
		return err
	}

	for i := 0; i < cycles; i++ {
		virtual.Advance(entryAfter)
		if err := deliver(domain.NewSignal(domain.SignalEntryFinished)); err != nil {
			return err
		}
		virtual.Advance(cycleAfter / 2)
		if err := deliver(domain.DecorativeFinished(s.Decorative)); err != nil {
			return err
		}
		virtual.Advance(cycleAfter - cycleAfter/2)
		if err := deliver(domain.NewSignal(domain.SignalCycleFinished)); err != nil {
			return err
		}
	}
	virtual.Drain()

	if report {
		render := tui.NewRenderer()
		out, err := render(timeline.Markdown(fmt.Sprintf("reveal: %d simulated cycles", cycles)))
		if err != nil {
			return err
		}
		fmt.Print(out)
	} else {
		timeline.Print(os.Stdout, tui.ColorEnabled(os.Stdout))
	}

	if output != "" {
		return writePage(ctx, engine, output)
	}
	return nil
}
