package records

import "context"

// Store is the local durable persistence of custody records. Stores are
// interface-driven so the sync orchestrator and capture service can run
// against file-backed or in-memory persistence without rewiring.
//
// Contract: Save is a whole-record replace keyed by ID (upsert); LoadAll
// returns the last durably committed snapshot in insertion order;
// DeleteByID is a no-op when the id is absent. All operations are atomic
// with respect to the full collection. A persistence fault surfaces as a
// wrapped sentinel.ErrStorage, never as a silently empty result.
type Store interface {
	Save(ctx context.Context, record Record) error
	LoadAll(ctx context.Context) ([]Record, error)
	FindByID(ctx context.Context, id string) (Record, error)
	DeleteByID(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
