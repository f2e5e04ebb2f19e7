// Package publisher provides the fail-closed audit publisher for ledger
// mutations.
//
// Emit is synchronous: the caller blocks until the write succeeds. If the
// write fails, an error is returned and the calling operation MUST fail.
// An approval that cannot be audited is not committed.
package publisher

import (
	"context"
	"fmt"
	"log/slog"

	"formledger/pkg/platform/audit"
	"formledger/pkg/requestcontext"
)

// Publisher emits audit events with fail-closed semantics.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for emission reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a publisher over the given store.
func New(store audit.Store, opts ...Option) (*Publisher, error) {
	if store == nil {
		return nil, fmt.Errorf("audit store is required")
	}
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Emit synchronously writes an event, enriching it with the request-scoped
// timestamp and request ID. Returns error if persistence fails - the caller
// MUST fail its operation.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Actor == "" {
		return fmt.Errorf("audit event requires Actor")
	}
	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	if p.logger != nil {
		p.logger.InfoContext(ctx, "audit event recorded",
			"action", string(event.Action),
			"actor", event.Actor,
			"document_id", event.DocumentID,
			"request_id", event.RequestID,
		)
	}
	return nil
}
