package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/reveal/internal/logging"
	"github.com/aretw0/reveal/pkg/domain"
	"github.com/aretw0/reveal/pkg/ports"
)

// DefaultChannel is the pub/sub channel signals travel on.
const DefaultChannel = "reveal:signals"

// SignalBus carries signals over Redis pub/sub. Payloads use the
// "kind[:animation]" wire form of domain.Signal.
type SignalBus struct {
	client  *backend.Client
	channel string
	logger  *slog.Logger
}

var _ ports.SignalSource = (*SignalBus)(nil)

// Option configures a SignalBus.
type Option func(*SignalBus)

// WithChannel sets the pub/sub channel.
func WithChannel(channel string) Option {
	return func(b *SignalBus) {
		b.channel = channel
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *SignalBus) {
		b.logger = logger
	}
}

// New connects to the Redis server at addr.
func New(addr string, opts ...Option) *SignalBus {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient creates a bus on an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *SignalBus {
	b := &SignalBus{
		client:  client,
		channel: DefaultChannel,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ping checks the connection.
func (b *SignalBus) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Publish sends a signal to every subscriber of the channel.
func (b *SignalBus) Publish(ctx context.Context, sig domain.Signal) error {
	if err := b.client.Publish(ctx, b.channel, sig.String()).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", sig, err)
	}
	return nil
}

// Subscribe delivers every signal published on the channel to sink until ctx ends.
// Malformed payloads and signals the sink ignores are logged and skipped.
func (b *SignalBus) Subscribe(ctx context.Context, sink ports.SignalSink) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}
	b.logger.Info("subscribed to signals", "channel", b.channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.deliver(ctx, sink, msg.Payload)
		}
	}
}

func (b *SignalBus) deliver(ctx context.Context, sink ports.SignalSink, payload string) {
	sig, err := domain.ParseSignal(payload)
	if err != nil {
		b.logger.Warn("discarding malformed signal", "payload", payload, "err", err)
		return
	}

	err = sink.Signal(ctx, sig)
	switch {
	case errors.Is(err, domain.ErrUnhandledSignal):
		b.logger.Debug("signal ignored by sequencer", "signal", sig.String())
	case err != nil:
		b.logger.Error("signal delivery failed", "signal", sig.String(), "err", err)
	}
}

// Close releases the client.
func (b *SignalBus) Close() error {
	return b.client.Close()
}
