package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"veritas/internal/records"
	"veritas/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite

	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *InMemoryStoreSuite) synced(id, owner string, capturedAt time.Time, loc records.Location) SyncedRecord {
	return SyncedRecord{
		ID:          id,
		Kind:        records.KindPhoto,
		ContentRef:  "/captures/" + id + ".jpg",
		Location:    loc,
		CapturedAt:  capturedAt,
		SyncStatus:  records.StatusComplete,
		ContentHash: "hash-" + id,
		LedgerTxID:  "0x" + id,
		SyncedAt:    capturedAt.Add(time.Hour),
		OwnerID:     owner,
	}
}

func (s *InMemoryStoreSuite) TestPutIsIdempotentUpsert() {
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	r := s.synced("rec-1", "ranger-17", at, records.Location{})

	s.Require().NoError(s.store.Put(ctx, r))
	r.ContentHash = "hash-updated"
	s.Require().NoError(s.store.Put(ctx, r))

	all, err := s.store.GetAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("hash-updated", all[0].ContentHash)
}

func (s *InMemoryStoreSuite) TestGetByIDMissing() {
	_, err := s.store.GetByID(context.Background(), "rec-missing")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestOrderingIsCapturedAtDesc() {
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Put(ctx, s.synced("rec-old", "a", base.Add(-2*time.Hour), records.Location{})))
	s.Require().NoError(s.store.Put(ctx, s.synced("rec-new", "a", base, records.Location{})))
	s.Require().NoError(s.store.Put(ctx, s.synced("rec-mid", "a", base.Add(-time.Hour), records.Location{})))

	all, err := s.store.GetAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]string{"rec-new", "rec-mid", "rec-old"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func (s *InMemoryStoreSuite) TestGetByOwner() {
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Put(ctx, s.synced("rec-1", "ranger-17", at, records.Location{})))
	s.Require().NoError(s.store.Put(ctx, s.synced("rec-2", "anonymous", at.Add(time.Minute), records.Location{})))
	s.Require().NoError(s.store.Put(ctx, s.synced("rec-3", "ranger-17", at.Add(2*time.Minute), records.Location{})))

	mine, err := s.store.GetByOwner(ctx, "ranger-17")
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.Equal("rec-3", mine[0].ID)
	s.Equal("rec-1", mine[1].ID)

	none, err := s.store.GetByOwner(ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *InMemoryStoreSuite) TestGetByRegion() {
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	moyobamba := records.Location{Latitude: -6.0349, Longitude: -76.9714}
	rioja := records.Location{Latitude: -6.0577, Longitude: -77.1681} // ~22 km west
	lima := records.Location{Latitude: -12.0464, Longitude: -77.0428} // ~670 km south

	s.Require().NoError(s.store.Put(ctx, s.synced("rec-near", "a", at, moyobamba)))
	s.Require().NoError(s.store.Put(ctx, s.synced("rec-close", "a", at, rioja)))
	s.Require().NoError(s.store.Put(ctx, s.synced("rec-far", "a", at, lima)))
	s.Require().NoError(s.store.Put(ctx, s.synced("rec-nowhere", "a", at, records.Location{})))

	within, err := s.store.GetByRegion(ctx, moyobamba.Latitude, moyobamba.Longitude, 50)
	s.Require().NoError(err)
	s.Require().Len(within, 2)
	ids := map[string]bool{within[0].ID: true, within[1].ID: true}
	s.True(ids["rec-near"])
	s.True(ids["rec-close"])
}

func TestDistanceKm(t *testing.T) {
	// Moyobamba to Lima is roughly 675 km great-circle.
	got := distanceKm(-6.0349, -76.9714, -12.0464, -77.0428)
	if got < 650 || got > 700 {
		t.Fatalf("distanceKm = %.1f, want ~675", got)
	}
	if d := distanceKm(-6.0349, -76.9714, -6.0349, -76.9714); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}
}
