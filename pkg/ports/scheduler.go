package ports

import (
	"context"
	"time"
)

// Scheduler runs tasks on a single cooperative loop.
// Tasks never run concurrently with each other.
type Scheduler interface {
	// Now returns the time elapsed since the scheduler was created.
	Now() time.Duration

	// Schedule runs task once, after delay, on the loop.
	// A non-positive delay queues the task behind the ones already due.
	Schedule(delay time.Duration, task func())

	// Call runs fn on the loop and waits for it to return.
	// It returns ctx.Err() if the context ends first.
	Call(ctx context.Context, fn func()) error
}
