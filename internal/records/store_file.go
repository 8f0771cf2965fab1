package records

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"veritas/pkg/platform/sentinel"
)

// FileStore persists the full record collection as one JSON document at a
// fixed path, mirroring the capture device's single-key storage model.
// Every mutation rewrites the whole collection through a temp file and
// rename, so readers only ever observe a fully committed snapshot.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a file-backed store rooted at path. The parent
// directory is created if missing; the file itself appears on first Save.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w: %w", sentinel.ErrStorage, err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	replaced := false
	for i := range all {
		if all[i].ID == record.ID {
			all[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, record)
	}
	return s.write(all)
}

func (s *FileStore) LoadAll(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read()
}

func (s *FileStore) FindByID(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.read()
	if err != nil {
		return Record{}, err
	}
	for _, r := range all {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, sentinel.ErrNotFound
}

func (s *FileStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	kept := all[:0]
	for _, r := range all {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	// Absent id is a no-op, but the rewrite keeps delete observably atomic.
	return s.write(kept)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear record store: %w: %w", sentinel.ErrStorage, err)
	}
	return nil
}

// read returns the committed snapshot. A missing file means the store has
// never been written, which legitimately yields an empty collection; any
// other fault propagates.
func (s *FileStore) read() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("read record store: %w: %w", sentinel.ErrStorage, err)
	}
	var all []Record
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode record store: %w: %w", sentinel.ErrStorage, err)
	}
	return all, nil
}

func (s *FileStore) write(all []Record) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record store: %w: %w", sentinel.ErrStorage, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write record store: %w: %w", sentinel.ErrStorage, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit record store: %w: %w", sentinel.ErrStorage, err)
	}
	return nil
}
