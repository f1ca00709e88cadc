package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/reveal"
	"github.com/aretw0/reveal/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the sequence with signals read from stdin",
	Long: `Starts the sequencer on a real-time clock and reads one signal per line
from standard input, e.g. "entry-animation-finished" or
"decorative-sub-animation-finished:stickerSlap". Type "state" to print the
current phase and "exit" to stop.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInteractive(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, strict IO)")
	runCmd.Flags().StringP("output", "o", "", "Write the final page markup to this file on exit")

	rootCmd.Run = runCmd.Run
}

func runInteractive(cmd *cobra.Command) error {
	headless, _ := cmd.Flags().GetBool("headless")
	output, _ := cmd.Flags().GetString("output")

	setup, err := newEngine(readSettings(cmd), nil)
	if err != nil {
		return err
	}

	if !headless {
		tui.PrintBanner(os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopCtx, cancelLoop := context.WithCancel(ctx)
	defer cancelLoop()

	g := new(errgroup.Group)
	g.Go(func() error {
		return setup.Engine.Run(loopCtx)
	})

	runner := reveal.NewRunner()
	runner.Input = os.Stdin
	runner.Output = os.Stdout
	runner.Headless = headless
	if !headless && tui.ColorEnabled(os.Stdout) {
		runner.Renderer = tui.NewRenderer()
	}
	runErr := runner.Run(ctx, setup.Engine)

	if runErr == nil && output != "" {
		runErr = writePage(loopCtx, setup.Engine, output)
	}

	cancelLoop()
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func writePage(ctx context.Context, engine *reveal.Engine, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := engine.RenderPage(ctx, f); err != nil {
		return err
	}
	return f.Close()
}
