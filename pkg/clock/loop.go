package clock

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/reveal/internal/logging"
)

// ErrLoopStopped is returned by Call once the loop is no longer running.
var ErrLoopStopped = errors.New("event loop stopped")

// Loop is a real-time cooperative event loop.
// Tasks are queued from any goroutine and executed one at a time by Run.
// Scheduled tasks wait in an unbounded ready list, so a task may schedule
// any number of follow-ups without blocking the loop.
type Loop struct {
	start  time.Time
	tasks  chan func()
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger

	mu    sync.Mutex
	ready []func()
	wake  chan struct{}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used to report recovered task panics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithQueueSize sets the capacity of the Call queue (default 256).
func WithQueueSize(size int) LoopOption {
	return func(l *Loop) {
		if size > 0 {
			l.tasks = make(chan func(), size)
		}
	}
}

// NewLoop creates a loop. Its clock starts now; tasks run once Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		start:  time.Now(),
		tasks:  make(chan func(), 256),
		done:   make(chan struct{}),
		logger: logging.NewNop(),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the wall time elapsed since the loop was created.
func (l *Loop) Now() time.Duration {
	return time.Since(l.start)
}

// Schedule queues task after delay. Tasks scheduled after the loop stopped are dropped.
func (l *Loop) Schedule(delay time.Duration, task func()) {
	if delay <= 0 {
		l.post(task)
		return
	}
	time.AfterFunc(delay, func() { l.post(task) })
}

// Call runs fn on the loop and waits for it.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.tasks <- wrapped:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued tasks until ctx ends. It returns nil on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return nil
		case task := <-l.tasks:
			l.execute(task)
		case <-l.wake:
			for _, task := range l.takeReady() {
				if ctx.Err() != nil {
					return nil
				}
				l.execute(task)
			}
		}
	}
}

func (l *Loop) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop task panicked", "panic", r)
		}
	}()
	task()
}

func (l *Loop) post(task func()) {
	select {
	case <-l.done:
		return
	default:
	}

	l.mu.Lock()
	l.ready = append(l.ready, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) takeReady() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.ready
	l.ready = nil
	return batch
}
