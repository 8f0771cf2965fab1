// Package audit captures the custody trail: structured events for every
// lifecycle action taken on evidence records. Sinks are append-only; the
// trail explains later what happened to a record and when.
package audit

import "time"

// Action names a custody lifecycle event.
type Action string

const (
	ActionRecordCaptured Action = "record_captured"
	ActionRecordSynced   Action = "record_synced"
	ActionSyncFailed     Action = "sync_failed"
	ActionRecordVerified Action = "record_verified"
	ActionRecordDeleted  Action = "record_deleted"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	RecordID  string    `json:"record_id,omitempty"`
	OwnerID   string    `json:"owner_id,omitempty"`
	TxID      string    `json:"tx_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}
