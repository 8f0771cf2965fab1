// Package records defines the custody record entity and its local durable
// store. A record is the unit of evidence: captured media or a structured
// consent decision, plus the provenance fields the sync pipeline fills in.
package records

import (
	"encoding/json"
	"fmt"
	"time"

	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
)

// Kind tags the record variant. Media kinds point at captured bytes on
// disk; consent records carry a structured decision hashed over its
// canonical serialized form.
type Kind string

const (
	KindPhoto   Kind = "photo"
	KindVideo   Kind = "video"
	KindConsent Kind = "fpic_record"
)

var validKinds = map[Kind]bool{
	KindPhoto:   true,
	KindVideo:   true,
	KindConsent: true,
}

// ParseKind constructs a Kind from external input.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !validKinds[k] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid record kind: "+s)
	}
	return k, nil
}

// IsMedia reports whether the kind carries uploadable file content.
func (k Kind) IsMedia() bool { return k == KindPhoto || k == KindVideo }

func (k Kind) String() string { return string(k) }

// SyncStatus is the record's position in the custody pipeline.
// LOCAL_ONLY and PENDING form one "not yet synced" superstate; both occur
// in persisted data and are treated identically.
type SyncStatus string

const (
	StatusLocalOnly SyncStatus = "LOCAL_ONLY"
	StatusPending   SyncStatus = "PENDING"
	StatusSyncing   SyncStatus = "SYNCING"
	StatusComplete  SyncStatus = "COMPLETE"
	StatusError     SyncStatus = "ERROR"
)

var validStatuses = map[SyncStatus]bool{
	StatusLocalOnly: true,
	StatusPending:   true,
	StatusSyncing:   true,
	StatusComplete:  true,
	StatusError:     true,
}

// ParseSyncStatus constructs a SyncStatus from external input.
func ParseSyncStatus(s string) (SyncStatus, error) {
	st := SyncStatus(s)
	if !validStatuses[st] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid sync status: "+s)
	}
	return st, nil
}

// IsPending reports whether the record still awaits its first successful sync.
func (s SyncStatus) IsPending() bool {
	return s == StatusLocalOnly || s == StatusPending
}

func (s SyncStatus) String() string { return string(s) }

// Consensus is the community's FPIC decision.
type Consensus string

const (
	ConsensusGranted     Consensus = "Granted"
	ConsensusWithdrawn   Consensus = "Withdrawn"
	ConsensusPending     Consensus = "Pending"
	ConsensusConditional Consensus = "Conditional"
)

var validConsensus = map[Consensus]bool{
	ConsensusGranted:     true,
	ConsensusWithdrawn:   true,
	ConsensusPending:     true,
	ConsensusConditional: true,
}

// ParseConsensus constructs a Consensus from external input.
func ParseConsensus(s string) (Consensus, error) {
	c := Consensus(s)
	if !validConsensus[c] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid consensus value: "+s)
	}
	return c, nil
}

// Location is the capture coordinate. Zeroed coordinates are the recognized
// "no location" sentinel, not an error.
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// IsZero reports the "no location" sentinel.
func (l Location) IsZero() bool {
	return l.Latitude == 0 && l.Longitude == 0
}

// MediaDetails holds the kind-specific fields of photo and video records.
type MediaDetails struct {
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// ConsentDetails holds the structured FPIC fields. The first five of these
// feed the canonical payload that gets hashed and anchored.
type ConsentDetails struct {
	ProjectName      string    `json:"project_name"`
	ConsultationDate string    `json:"consultation_date"`
	Consensus        Consensus `json:"consensus"`
	Community        string    `json:"community"`
	Developer        string    `json:"developer,omitempty"`
	Description      string    `json:"description,omitempty"`
	Participants     string    `json:"participants,omitempty"`
	Terms            string    `json:"terms,omitempty"`
}

// Record is the custody unit. ID, Kind, CapturedAt, and ContentHash are
// immutable after creation; LedgerTxID and RemoteContentURL are immutable
// once set; SyncStatus moves only along the edges TransitionTo enforces.
type Record struct {
	ID               string     `json:"id"`
	Kind             Kind       `json:"kind"`
	FileName         string     `json:"file_name,omitempty"`
	ContentRef       string     `json:"content_ref"`
	Location         Location   `json:"location"`
	CapturedAt       time.Time  `json:"captured_at"`
	ContentHash      string     `json:"content_hash,omitempty"`
	SyncStatus       SyncStatus `json:"sync_status"`
	LedgerTxID       string     `json:"ledger_tx_id,omitempty"`
	RemoteContentURL string     `json:"remote_content_url,omitempty"`
	SyncedAt         *time.Time `json:"synced_at,omitempty"`
	OwnerID          string     `json:"owner_id"`

	Media   *MediaDetails   `json:"media,omitempty"`
	Consent *ConsentDetails `json:"consent,omitempty"`
}

// TransitionTo mutates SyncStatus along the allowed edges only:
//
//	LOCAL_ONLY|PENDING -> SYNCING
//	SYNCING            -> COMPLETE | ERROR
//	ERROR              -> SYNCING
//
// COMPLETE is terminal. Leaving the pending superstate additionally
// requires ContentHash to be set, and COMPLETE requires a genuine ledger
// anchor (plus an uploaded URL for media kinds).
func (r *Record) TransitionTo(next SyncStatus) error {
	if !validStatuses[next] {
		return fmt.Errorf("transition %s -> %s: %w", r.SyncStatus, next, sentinel.ErrInvalidState)
	}
	allowed := false
	switch r.SyncStatus {
	case StatusLocalOnly, StatusPending:
		allowed = next == StatusSyncing && r.ContentHash != ""
	case StatusSyncing:
		allowed = next == StatusComplete || next == StatusError
	case StatusError:
		allowed = next == StatusSyncing
	case StatusComplete:
		allowed = false
	}
	if !allowed {
		return fmt.Errorf("transition %s -> %s: %w", r.SyncStatus, next, sentinel.ErrInvalidState)
	}
	if next == StatusComplete {
		if r.LedgerTxID == "" {
			return fmt.Errorf("complete without ledger anchor: %w", sentinel.ErrInvalidState)
		}
		if r.Kind.IsMedia() && r.RemoteContentURL == "" {
			return fmt.Errorf("complete without uploaded content: %w", sentinel.ErrInvalidState)
		}
	}
	r.SyncStatus = next
	return nil
}

// canonicalConsent fixes the serialized field order of the hashed payload.
// Changing this layout changes every consent record fingerprint; treat it
// as a wire format.
type canonicalConsent struct {
	ProjectName      string `json:"project_name"`
	ConsultationDate string `json:"consultation_date"`
	Consensus        string `json:"consensus"`
	Community        string `json:"community"`
	CapturedAt       string `json:"captured_at"`
}

// CanonicalConsentPayload returns the canonical serialized representation a
// consent record is hashed over, used in place of file bytes.
func CanonicalConsentPayload(details ConsentDetails, capturedAt time.Time) string {
	payload, _ := json.Marshal(canonicalConsent{
		ProjectName:      details.ProjectName,
		ConsultationDate: details.ConsultationDate,
		Consensus:        string(details.Consensus),
		Community:        details.Community,
		CapturedAt:       capturedAt.UTC().Format(time.RFC3339),
	})
	return string(payload)
}
