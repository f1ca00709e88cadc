package reveal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/reveal/pkg/domain"
)

// Runner feeds signals read line by line from Input into an engine.
// This allows for easy testing and integration with shell pipelines.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms the runner output before it is written.
// This allows for TUI rendering without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run starts the engine and delivers one signal per input line until EOF,
// "exit" or ctx ends. Blank lines and lines starting with '#' are skipped,
// "state" prints the current snapshot.
func (r *Runner) Run(ctx context.Context, engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	if err := engine.Start(ctx); err != nil && !errors.Is(err, domain.ErrAlreadyStarted) {
		return fmt.Errorf("start: %w", err)
	}

	if !r.Headless {
		r.print("--- reveal (runner) ---")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.Input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("input error: %w", err)
					}
				default:
				}
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case line == "exit" || line == "quit":
			if !r.Headless {
				r.print("Bye!")
			}
			return nil
		case line == "state":
			state, err := engine.Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}
			r.print(fmt.Sprintf("phase=%s scene=%s cycle=%d ignored=%d", state.Phase, state.Scene, state.Cycle, state.Ignored))
			continue
		}

		if err := r.deliver(ctx, engine, line); err != nil {
			return err
		}
	}
}

func (r *Runner) deliver(ctx context.Context, engine *Engine, line string) error {
	sig, err := domain.ParseSignal(line)
	if err != nil {
		r.print(fmt.Sprintf("error: %v", err))
		return nil
	}

	err = engine.Signal(ctx, sig)
	switch {
	case errors.Is(err, domain.ErrUnhandledSignal):
		r.print(fmt.Sprintf("ignored %s", sig))
		return nil
	case err != nil:
		return fmt.Errorf("signal %s: %w", sig, err)
	}

	state, err := engine.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	r.print(fmt.Sprintf("%s -> %s", sig, state.Phase))
	return nil
}

func (r *Runner) print(msg string) {
	if r.Renderer != nil {
		if rendered, err := r.Renderer(msg); err == nil {
			msg = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(msg))
}
