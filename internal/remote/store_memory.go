package remote

import (
	"context"
	"sort"
	"sync"

	"veritas/pkg/platform/sentinel"
)

// InMemoryStore keeps the synced mirror in process memory for tests and
// disconnected deployments.
type InMemoryStore struct {
	mu   sync.RWMutex
	byID map[string]SyncedRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[string]SyncedRecord)}
}

func (s *InMemoryStore) Put(_ context.Context, record SyncedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[record.ID] = record
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (SyncedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.byID[id]; ok {
		return record, nil
	}
	return SyncedRecord{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) GetByOwner(_ context.Context, ownerID string) ([]SyncedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]SyncedRecord, 0)
	for _, r := range s.byID {
		if r.OwnerID == ownerID {
			matched = append(matched, r)
		}
	}
	sortByCapturedAtDesc(matched)
	return matched, nil
}

func (s *InMemoryStore) GetAll(_ context.Context) ([]SyncedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]SyncedRecord, 0, len(s.byID))
	for _, r := range s.byID {
		all = append(all, r)
	}
	sortByCapturedAtDesc(all)
	return all, nil
}

func (s *InMemoryStore) GetByRegion(ctx context.Context, lat, lng, radiusKm float64) ([]SyncedRecord, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterByRegion(all, lat, lng, radiusKm), nil
}

func sortByCapturedAtDesc(list []SyncedRecord) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CapturedAt.After(list[j].CapturedAt)
	})
}
