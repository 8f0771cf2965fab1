package records

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas/pkg/platform/sentinel"
)

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"photo", "video", "fpic_record"} {
		k, err := ParseKind(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, valid, k.String())
	}
	_, err := ParseKind("audio")
	assert.Error(t, err)
}

func TestKindIsMedia(t *testing.T) {
	assert.True(t, KindPhoto.IsMedia())
	assert.True(t, KindVideo.IsMedia())
	assert.False(t, KindConsent.IsMedia())
}

func TestParseSyncStatus(t *testing.T) {
	st, err := ParseSyncStatus("COMPLETE")
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, st)

	_, err = ParseSyncStatus("complete")
	assert.Error(t, err, "status values are case sensitive")
}

func TestParseConsensus(t *testing.T) {
	c, err := ParseConsensus("Conditional")
	require.NoError(t, err)
	assert.Equal(t, ConsensusConditional, c)

	_, err = ParseConsensus("Maybe")
	assert.Error(t, err)
}

func TestSyncStatusIsPending(t *testing.T) {
	assert.True(t, StatusLocalOnly.IsPending())
	assert.True(t, StatusPending.IsPending())
	assert.False(t, StatusSyncing.IsPending())
	assert.False(t, StatusComplete.IsPending())
	assert.False(t, StatusError.IsPending())
}

func TestTransitionEdges(t *testing.T) {
	base := Record{
		ID:          "rec-1",
		Kind:        KindPhoto,
		ContentHash: "abc123",
		LedgerTxID:  "0xdeadbeef",
	}

	transitions := []struct {
		name    string
		from    SyncStatus
		to      SyncStatus
		allowed bool
	}{
		{"local_only to syncing", StatusLocalOnly, StatusSyncing, true},
		{"pending to syncing", StatusPending, StatusSyncing, true},
		{"syncing to complete", StatusSyncing, StatusComplete, true},
		{"syncing to error", StatusSyncing, StatusError, true},
		{"error to syncing", StatusError, StatusSyncing, true},
		{"local_only to complete", StatusLocalOnly, StatusComplete, false},
		{"pending to error", StatusPending, StatusError, false},
		{"complete to syncing", StatusComplete, StatusSyncing, false},
		{"complete to error", StatusComplete, StatusError, false},
		{"complete to pending", StatusComplete, StatusPending, false},
		{"error to complete", StatusError, StatusComplete, false},
	}
	for _, tc := range transitions {
		t.Run(tc.name, func(t *testing.T) {
			r := base
			r.RemoteContentURL = "https://blob.example/evidence/rec-1.jpg"
			r.SyncStatus = tc.from
			err := r.TransitionTo(tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, r.SyncStatus)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, sentinel.ErrInvalidState))
				assert.Equal(t, tc.from, r.SyncStatus, "status unchanged on refused transition")
			}
		})
	}
}

func TestTransitionRequiresHashBeforeSyncing(t *testing.T) {
	r := Record{ID: "rec-1", Kind: KindPhoto, SyncStatus: StatusLocalOnly}
	err := r.TransitionTo(StatusSyncing)
	require.Error(t, err)
	assert.Equal(t, StatusLocalOnly, r.SyncStatus)
}

func TestTransitionRequiresAnchorBeforeComplete(t *testing.T) {
	r := Record{
		ID:               "rec-1",
		Kind:             KindPhoto,
		ContentHash:      "abc123",
		RemoteContentURL: "https://blob.example/evidence/rec-1.jpg",
		SyncStatus:       StatusSyncing,
	}
	err := r.TransitionTo(StatusComplete)
	require.Error(t, err, "no ledger anchor")

	r.LedgerTxID = "0xdeadbeef"
	r.RemoteContentURL = ""
	err = r.TransitionTo(StatusComplete)
	require.Error(t, err, "media without uploaded content")

	r.RemoteContentURL = "https://blob.example/evidence/rec-1.jpg"
	require.NoError(t, r.TransitionTo(StatusComplete))
}

func TestConsentCompletesWithoutUpload(t *testing.T) {
	r := Record{
		ID:          "rec-consent",
		Kind:        KindConsent,
		ContentHash: "abc123",
		LedgerTxID:  "0xdeadbeef",
		SyncStatus:  StatusSyncing,
	}
	require.NoError(t, r.TransitionTo(StatusComplete))
}

func TestCanonicalConsentPayload(t *testing.T) {
	capturedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	details := ConsentDetails{
		ProjectName:      "Rio Verde Hydro",
		ConsultationDate: "2026-03-10",
		Consensus:        ConsensusGranted,
		Community:        "Alto Mayo",
		Developer:        "should not appear",
	}

	payload := CanonicalConsentPayload(details, capturedAt)
	assert.Equal(t,
		`{"project_name":"Rio Verde Hydro","consultation_date":"2026-03-10","consensus":"Granted","community":"Alto Mayo","captured_at":"2026-03-14T09:00:00Z"}`,
		payload,
	)

	// Repeat serialization must be byte-identical or every anchored
	// fingerprint would drift.
	assert.Equal(t, payload, CanonicalConsentPayload(details, capturedAt))

	// The capture time participates, so the same decision captured at a
	// different moment is a different payload.
	assert.NotEqual(t, payload, CanonicalConsentPayload(details, capturedAt.Add(time.Second)))
}

func TestCanonicalConsentPayloadNormalizesToUTC(t *testing.T) {
	lima := time.FixedZone("PET", -5*60*60)
	capturedAt := time.Date(2026, 3, 14, 4, 0, 0, 0, lima)
	details := ConsentDetails{
		ProjectName:      "Rio Verde Hydro",
		ConsultationDate: "2026-03-10",
		Consensus:        ConsensusGranted,
		Community:        "Alto Mayo",
	}
	assert.Equal(t,
		CanonicalConsentPayload(details, capturedAt.UTC()),
		CanonicalConsentPayload(details, capturedAt),
	)
}

func TestLocationIsZero(t *testing.T) {
	assert.True(t, Location{}.IsZero())
	assert.True(t, Location{Accuracy: 12}.IsZero())
	assert.False(t, Location{Latitude: -6.03, Longitude: -76.97}.IsZero())
}
