package clock

import "sync"

// Completion resolves once and runs its continuations on the resolving goroutine.
type Completion struct {
	mu        sync.Mutex
	done      bool
	callbacks []func()
}

// NewCompletion returns an unresolved completion.
func NewCompletion() *Completion {
	return &Completion{}
}

// Resolved returns a completion that is already resolved.
func Resolved() *Completion {
	return &Completion{done: true}
}

// Resolve marks the completion done and runs pending continuations in registration order.
// Subsequent calls are no-ops.
func (c *Completion) Resolve() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	callbacks := c.callbacks
	c.callbacks = nil
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// Then registers fn to run on resolution. If already resolved, fn runs immediately.
func (c *Completion) Then(fn func()) {
	c.mu.Lock()
	if !c.done {
		c.callbacks = append(c.callbacks, fn)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	fn()
}

// Done reports whether the completion has resolved.
func (c *Completion) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// All returns a completion that resolves once every given completion has resolved.
func All(cs ...*Completion) *Completion {
	all := NewCompletion()
	remaining := len(cs)
	if remaining == 0 {
		all.Resolve()
		return all
	}

	var mu sync.Mutex
	for _, c := range cs {
		c.Then(func() {
			mu.Lock()
			remaining--
			last := remaining == 0
			mu.Unlock()
			if last {
				all.Resolve()
			}
		})
	}
	return all
}
