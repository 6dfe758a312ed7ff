package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher emits audit events with fail-closed semantics. Emit blocks
// until the event is persisted; on error the calling operation MUST fail.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithSink forwards every persisted event to an external sink. Sink
// delivery is also fail-closed.
func WithSink(sink Sink) Option {
	return func(p *Publisher) { p.sink = sink }
}

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// NewPublisher creates a fail-closed publisher over the given store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit synchronously writes an event to the store and, if configured, the
// sink. Returns an error when either write fails; the caller must then
// abort its operation.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.ActorID == "" {
		return fmt.Errorf("audit event requires ActorID")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "CRITICAL: audit persistence failed",
			"action", event.Action,
			"actor", event.ActorID,
			"error", err.Error(),
		)
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	if p.sink != nil {
		if err := p.sink.Publish(ctx, event); err != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: audit sink delivery failed",
				"action", event.Action,
				"actor", event.ActorID,
				"error", err.Error(),
			)
			return fmt.Errorf("audit sink delivery failed: %w", err)
		}
	}
	return nil
}

// Close releases the sink, if any.
func (p *Publisher) Close() error {
	if p.sink != nil {
		return p.sink.Close()
	}
	return nil
}
