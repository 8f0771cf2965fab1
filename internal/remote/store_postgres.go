package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"veritas/internal/records"
	"veritas/pkg/platform/sentinel"
)

// PostgresStore persists the synced mirror in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed mirror store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS synced_records (
	id                 TEXT PRIMARY KEY,
	kind               TEXT NOT NULL,
	file_name          TEXT NOT NULL DEFAULT '',
	content_ref        TEXT NOT NULL,
	latitude           DOUBLE PRECISION NOT NULL DEFAULT 0,
	longitude          DOUBLE PRECISION NOT NULL DEFAULT 0,
	accuracy           DOUBLE PRECISION NOT NULL DEFAULT 0,
	location_at        TIMESTAMPTZ,
	captured_at        TIMESTAMPTZ NOT NULL,
	sync_status        TEXT NOT NULL,
	content_hash       TEXT NOT NULL,
	ledger_tx_id       TEXT NOT NULL,
	remote_content_url TEXT,
	synced_at          TIMESTAMPTZ NOT NULL,
	owner_id           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_synced_records_owner ON synced_records (owner_id, captured_at DESC);
`

// EnsureSchema creates the mirror table when missing. Idempotent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure synced_records schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, record SyncedRecord) error {
	var locationAt sql.NullTime
	if !record.Location.Timestamp.IsZero() {
		locationAt = sql.NullTime{Time: record.Location.Timestamp, Valid: true}
	}
	var contentURL sql.NullString
	if record.RemoteContentURL != "" {
		contentURL = sql.NullString{String: record.RemoteContentURL, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO synced_records (
			id, kind, file_name, content_ref,
			latitude, longitude, accuracy, location_at,
			captured_at, sync_status, content_hash, ledger_tx_id,
			remote_content_url, synced_at, owner_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			file_name = EXCLUDED.file_name,
			content_ref = EXCLUDED.content_ref,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			accuracy = EXCLUDED.accuracy,
			location_at = EXCLUDED.location_at,
			captured_at = EXCLUDED.captured_at,
			sync_status = EXCLUDED.sync_status,
			content_hash = EXCLUDED.content_hash,
			ledger_tx_id = EXCLUDED.ledger_tx_id,
			remote_content_url = EXCLUDED.remote_content_url,
			synced_at = EXCLUDED.synced_at,
			owner_id = EXCLUDED.owner_id`,
		record.ID, string(record.Kind), record.FileName, record.ContentRef,
		record.Location.Latitude, record.Location.Longitude, record.Location.Accuracy, locationAt,
		record.CapturedAt, string(record.SyncStatus), record.ContentHash, record.LedgerTxID,
		contentURL, record.SyncedAt, record.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("put synced record: %w", err)
	}
	return nil
}

const selectColumns = `
	id, kind, file_name, content_ref,
	latitude, longitude, accuracy, location_at,
	captured_at, sync_status, content_hash, ledger_tx_id,
	remote_content_url, synced_at, owner_id`

func (s *PostgresStore) GetByID(ctx context.Context, id string) (SyncedRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM synced_records WHERE id = $1`, id)
	record, err := scanSyncedRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SyncedRecord{}, sentinel.ErrNotFound
		}
		return SyncedRecord{}, fmt.Errorf("get synced record by id: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) GetByOwner(ctx context.Context, ownerID string) ([]SyncedRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM synced_records
		 WHERE owner_id = $1 ORDER BY captured_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get synced records by owner: %w", err)
	}
	defer rows.Close()
	return collectSyncedRecords(rows)
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]SyncedRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM synced_records ORDER BY captured_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("get all synced records: %w", err)
	}
	defer rows.Close()
	return collectSyncedRecords(rows)
}

// GetByRegion filters in process rather than in SQL; region queries are an
// analytics surface and the mirror is small per deployment.
func (s *PostgresStore) GetByRegion(ctx context.Context, lat, lng, radiusKm float64) ([]SyncedRecord, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterByRegion(all, lat, lng, radiusKm), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSyncedRecord(row rowScanner) (SyncedRecord, error) {
	var (
		record     SyncedRecord
		kind       string
		status     string
		locationAt sql.NullTime
		contentURL sql.NullString
		capturedAt time.Time
		syncedAt   time.Time
	)
	err := row.Scan(
		&record.ID, &kind, &record.FileName, &record.ContentRef,
		&record.Location.Latitude, &record.Location.Longitude, &record.Location.Accuracy, &locationAt,
		&capturedAt, &status, &record.ContentHash, &record.LedgerTxID,
		&contentURL, &syncedAt, &record.OwnerID,
	)
	if err != nil {
		return SyncedRecord{}, err
	}
	record.Kind = records.Kind(kind)
	record.SyncStatus = records.SyncStatus(status)
	record.CapturedAt = capturedAt
	record.SyncedAt = syncedAt
	if locationAt.Valid {
		record.Location.Timestamp = locationAt.Time
	}
	if contentURL.Valid {
		record.RemoteContentURL = contentURL.String
	}
	return record, nil
}

func collectSyncedRecords(rows *sql.Rows) ([]SyncedRecord, error) {
	list := make([]SyncedRecord, 0)
	for rows.Next() {
		record, err := scanSyncedRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan synced record: %w", err)
		}
		list = append(list, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate synced records: %w", err)
	}
	return list, nil
}
