package clock

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

type task struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }
func (q taskQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}
func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *taskQueue) Push(x any)   { *q = append(*q, x.(*task)) }
func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// Virtual is a deterministic scheduler whose time only moves on Advance.
// It is safe to schedule from inside a running task.
type Virtual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	queue taskQueue
}

// NewVirtual returns a virtual clock at time zero.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Schedule queues task at now+delay.
func (v *Virtual) Schedule(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	v.mu.Lock()
	v.seq++
	heap.Push(&v.queue, &task{at: v.now + delay, seq: v.seq, fn: fn})
	v.mu.Unlock()
}

// Call runs fn immediately: the caller of a virtual clock is the loop.
func (v *Virtual) Call(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

// Advance moves time forward by d, running every task that falls due on the way,
// including tasks scheduled by those tasks.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now + d
	v.mu.Unlock()
	v.runUntil(target)
}

// AdvanceTo moves time forward to the absolute virtual time at.
// Times in the past are ignored.
func (v *Virtual) AdvanceTo(at time.Duration) {
	v.runUntil(at)
}

// Drain runs tasks until the queue is empty and returns the final time.
func (v *Virtual) Drain() time.Duration {
	for {
		v.mu.Lock()
		if len(v.queue) == 0 {
			now := v.now
			v.mu.Unlock()
			return now
		}
		next := v.queue[0].at
		v.mu.Unlock()
		v.runUntil(next)
	}
}

// Pending returns the number of queued tasks.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.queue)
}

func (v *Virtual) runUntil(target time.Duration) {
	for {
		v.mu.Lock()
		if len(v.queue) == 0 || v.queue[0].at > target {
			if target > v.now {
				v.now = target
			}
			v.mu.Unlock()
			return
		}
		t := heap.Pop(&v.queue).(*task)
		if t.at > v.now {
			v.now = t.at
		}
		v.mu.Unlock()

		t.fn()
	}
}
