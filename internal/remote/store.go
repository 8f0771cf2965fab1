package remote

import "context"

// Store is the durable cloud-side mirror of synced records.
//
// Put upserts idempotently by id, so a repeated metadata-write step after a
// partial sync cannot duplicate rows. The Get queries return records sorted
// by captured_at descending.
type Store interface {
	Put(ctx context.Context, record SyncedRecord) error
	GetByID(ctx context.Context, id string) (SyncedRecord, error)
	GetByOwner(ctx context.Context, ownerID string) ([]SyncedRecord, error)
	GetAll(ctx context.Context) ([]SyncedRecord, error)
	GetByRegion(ctx context.Context, lat, lng, radiusKm float64) ([]SyncedRecord, error)
}
