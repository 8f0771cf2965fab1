// Package remote mirrors synced custody records to durable cloud-side
// storage, queryable by owner and by id. It is a thin persistence façade;
// no custody rules live here.
package remote

import (
	"time"

	"veritas/internal/records"
)

// SyncedRecord is the remote mirror schema of a record that completed the
// sync pipeline. Status is always COMPLETE once a row exists;
// RemoteContentURL stays empty for non-media kinds.
type SyncedRecord struct {
	ID               string             `json:"id"`
	Kind             records.Kind       `json:"kind"`
	FileName         string             `json:"file_name,omitempty"`
	ContentRef       string             `json:"content_ref"`
	Location         records.Location   `json:"location"`
	CapturedAt       time.Time          `json:"captured_at"`
	SyncStatus       records.SyncStatus `json:"sync_status"`
	ContentHash      string             `json:"content_hash"`
	LedgerTxID       string             `json:"ledger_tx_id"`
	RemoteContentURL string             `json:"remote_content_url,omitempty"`
	SyncedAt         time.Time          `json:"synced_at"`
	OwnerID          string             `json:"owner_id"`
}

// FromRecord builds the mirror view of a locally held record at the moment
// its pipeline commits.
func FromRecord(r records.Record, syncedAt time.Time) SyncedRecord {
	return SyncedRecord{
		ID:               r.ID,
		Kind:             r.Kind,
		FileName:         r.FileName,
		ContentRef:       r.ContentRef,
		Location:         r.Location,
		CapturedAt:       r.CapturedAt,
		SyncStatus:       records.StatusComplete,
		ContentHash:      r.ContentHash,
		LedgerTxID:       r.LedgerTxID,
		RemoteContentURL: r.RemoteContentURL,
		SyncedAt:         syncedAt,
		OwnerID:          r.OwnerID,
	}
}
