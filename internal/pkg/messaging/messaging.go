package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/shandysiswandi/gonotif/internal/pkg/stacktrace"
)

var (
	// ErrUnsupported is returned when the selected broker lacks a feature,
	// e.g. delayed delivery on Kafka.
	ErrUnsupported = errors.New("messaging: unsupported operation")
	// ErrDestinationRequired is returned when the topic/subject/queue is empty.
	ErrDestinationRequired = errors.New("messaging: destination is required")
	// ErrHandlerRequired is returned when Consume gets a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
)

// Messaging is a broker-agnostic client that can publish and consume messages.
type Messaging interface {
	io.Closer

	// Publish sends msg to destination (topic, subject or routing key).
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
	// Consume blocks, feeding messages from source to handler until ctx ends.
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message. With auto-ack enabled a nil error
// acks the message and a non-nil error asks the broker to redeliver it.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to publish.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte
	// Key is used for partitioning on Kafka and ordering on Pub/Sub.
	Key []byte
	// Headers carry metadata such as the correlation ID.
	Headers []Header
	// Delay defers delivery on brokers that support it (NSQ, RabbitMQ).
	Delay time.Duration
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

// HeaderValue returns the first header value for key or an empty string.
func HeaderValue(headers []Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// PublishResult carries optional broker metadata about a publish.
type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	Body() []byte
	Headers() []Header
	ID() string
	Topic() string
	Timestamp() time.Time
	// Ack acknowledges successful processing.
	Ack(ctx context.Context) error
	// Nack asks the broker to redeliver the message where supported.
	Nack(ctx context.Context) error
}

// responseGuard makes Ack/Nack idempotent per message.
type responseGuard struct {
	done atomic.Bool
}

// claim returns true the first time it is called.
func (g *responseGuard) claim() bool {
	return !g.done.Swap(true)
}

func (g *responseGuard) responded() bool {
	return g.done.Load()
}

type received interface {
	Message
	responded() bool
}

// dispatch runs handler with panic recovery and applies auto-ack.
func dispatch(ctx context.Context, kind string, msg received, handler Handler, autoAck bool) error {
	herr := callHandlerWithRecover(ctx, kind, func() error { return handler(ctx, msg) })

	if msg.responded() || !autoAck {
		return herr
	}
	if herr == nil {
		return msg.Ack(ctx)
	}
	return msg.Nack(ctx)
}

func callHandlerWithRecover(ctx context.Context, kind string, fn func() error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}
		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", string(stack))
		}
		err = fmt.Errorf("messaging: panic in %s handler: %v", kind, rvr)
	}()

	return fn()
}

func validateConsume(ctx context.Context, source string, handler Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}
