package connection

import (
	"context"
	"time"
)

// Dispatcher handles one inbound text message.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg string) (string, bool)
}

// DispatcherFunc is a function adapter for Dispatcher.
type DispatcherFunc func(ctx context.Context, msg string) (string, bool)

func (f DispatcherFunc) Dispatch(ctx context.Context, msg string) (string, bool) {
	return f(ctx, msg)
}

// Config configures the connection handler.
type Config struct {
	AuthToken    string        // required bearer token; empty accepts everyone
	WriteTimeout time.Duration // write deadline per outbound frame
	PingInterval time.Duration // keepalive ping period; <= 0 disables keepalive
	PongTimeout  time.Duration // max silence before the peer is considered gone
	ReadLimit    int64         // max inbound frame size in bytes
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
		PongTimeout:  60 * time.Second,
		ReadLimit:    64 * 1024,
	}
}
