package ports

import (
	"context"

	"github.com/aretw0/reveal/pkg/domain"
)

// SignalSink accepts external signals.
type SignalSink interface {
	Signal(ctx context.Context, sig domain.Signal) error
}

// SignalSource delivers signals to a sink until the context ends.
type SignalSource interface {
	Subscribe(ctx context.Context, sink SignalSink) error
}
