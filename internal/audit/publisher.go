package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher is the emit side of the custody trail. Sync and verification
// report through it; a failing sink never fails the business operation, it
// is logged and dropped (ops semantics, not compliance semantics).
type Publisher interface {
	Emit(ctx context.Context, event Event)
}

// NopPublisher drops every event. Services install it when no trail sink
// is configured so emit sites never need nil checks.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, Event) {}

// StorePublisher appends events to a Store.
type StorePublisher struct {
	store  Store
	logger *slog.Logger
}

func NewStorePublisher(store Store, logger *slog.Logger) *StorePublisher {
	return &StorePublisher{store: store, logger: logger}
}

func (p *StorePublisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "audit append failed",
			"action", event.Action,
			"record_id", event.RecordID,
			"error", err,
		)
	}
}
