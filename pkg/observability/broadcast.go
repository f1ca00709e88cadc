package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/reveal/internal/logging"
	"github.com/aretw0/reveal/pkg/domain"
)

// Event is one streamed sequencer event.
type Event struct {
	Type       string                  `json:"type"`
	Transition *domain.TransitionEvent `json:"transition,omitempty"`
	Ignored    *IgnoredSignal          `json:"ignored,omitempty"`
	Cycle      *domain.CycleEvent      `json:"cycle,omitempty"`
}

// IgnoredSignal is the streamed form of a domain.SignalEvent.
type IgnoredSignal struct {
	domain.SignalEvent
	Reason string `json:"reason"`
}

// Event types.
const (
	EventTransition = "transition"
	EventIgnored    = "ignored"
	EventCycle      = "cycle"
)

// Broadcaster fans events out to live subscribers.
// Slow subscribers lose messages instead of blocking the sequencer.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
	buffer      int
	logger      *slog.Logger
}

// BroadcasterOption configures a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithBuffer sets the per-subscriber buffer (default 16).
func WithBuffer(n int) BroadcasterOption {
	return func(b *Broadcaster) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// WithBroadcastLogger sets the logger.
func WithBroadcastLogger(logger *slog.Logger) BroadcasterOption {
	return func(b *Broadcaster) {
		b.logger = logger
	}
}

// NewBroadcaster creates a broadcaster without subscribers.
func NewBroadcaster(opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		subscribers: make(map[chan string]struct{}),
		buffer:      16,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a subscriber. The returned func unsubscribes and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan string, b.buffer)
	b.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers, ch)
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish sends msg to every subscriber without blocking.
func (b *Broadcaster) Publish(msg string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
			b.logger.Warn("subscriber buffer full, dropping event")
		}
	}
}

func (b *Broadcaster) publishEvent(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		b.logger.Error("event encode failed", "type", e.Type, "err", err)
		return
	}
	b.Publish(string(data))
}

// Hooks returns lifecycle hooks publishing every event as JSON.
func (b *Broadcaster) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseEnter: func(_ context.Context, e *domain.TransitionEvent) {
			b.publishEvent(Event{Type: EventTransition, Transition: e})
		},
		OnSignalIgnored: func(_ context.Context, e *domain.SignalEvent) {
			ignored := &IgnoredSignal{SignalEvent: *e}
			if e.Reason != nil {
				ignored.Reason = e.Reason.Error()
			}
			b.publishEvent(Event{Type: EventIgnored, Ignored: ignored})
		},
		OnCycleComplete: func(_ context.Context, e *domain.CycleEvent) {
			b.publishEvent(Event{Type: EventCycle, Cycle: e})
		},
	}
}
