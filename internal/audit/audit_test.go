package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas/internal/platform/logger"
)

type failingStore struct{}

func (failingStore) Append(context.Context, Event) error {
	return errors.New("disk full")
}

func (failingStore) ListByRecord(context.Context, string) ([]Event, error) {
	return nil, errors.New("disk full")
}

func TestInMemoryStoreFiltersByRecord(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	events := []Event{
		{Action: ActionRecordCaptured, RecordID: "rec-1"},
		{Action: ActionRecordSynced, RecordID: "rec-1", TxID: "0xabc"},
		{Action: ActionRecordCaptured, RecordID: "rec-2"},
	}
	for _, e := range events {
		require.NoError(t, store.Append(ctx, e))
	}

	trail, err := store.ListByRecord(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, ActionRecordCaptured, trail[0].Action)
	assert.Equal(t, ActionRecordSynced, trail[1].Action)

	empty, err := store.ListByRecord(ctx, "rec-9")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStorePublisherStampsTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	pub := NewStorePublisher(store, logger.Discard())

	before := time.Now()
	pub.Emit(ctx, Event{Action: ActionRecordCaptured, RecordID: "rec-1"})

	trail, err := store.ListByRecord(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.False(t, trail[0].Timestamp.Before(before))

	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	pub.Emit(ctx, Event{Action: ActionRecordSynced, RecordID: "rec-1", Timestamp: fixed})
	trail, err = store.ListByRecord(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, fixed, trail[1].Timestamp)
}

func TestStorePublisherSwallowsSinkFailure(t *testing.T) {
	pub := NewStorePublisher(failingStore{}, logger.Discard())

	// Emit must not panic or propagate; the business operation has already
	// succeeded by the time the trail is written.
	pub.Emit(context.Background(), Event{Action: ActionSyncFailed, RecordID: "rec-1"})
}

func TestWorkerDrainsInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	inbox <- Event{Action: ActionRecordCaptured, RecordID: "rec-1"}
	inbox <- Event{Action: ActionRecordDeleted, RecordID: "rec-1"}

	require.Eventually(t, func() bool {
		trail, err := store.ListByRecord(context.Background(), "rec-1")
		return err == nil && len(trail) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
