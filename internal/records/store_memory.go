package records

import (
	"context"
	"sync"

	"veritas/pkg/platform/sentinel"
)

// InMemoryStore keeps records in process memory. It backs tests and
// ephemeral deployments; semantics match FileStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	ordered []Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ordered {
		if s.ordered[i].ID == record.ID {
			s.ordered[i] = record
			return nil
		}
	}
	s.ordered = append(s.ordered, record)
	return nil
}

func (s *InMemoryStore) LoadAll(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record{}, s.ordered...), nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.ordered {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.ordered[:0]
	for _, r := range s.ordered {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.ordered = kept
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ordered = nil
	return nil
}
