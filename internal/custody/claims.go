package custody

import (
	"context"
	"sync"
)

// Claimer enforces at-most-one in-flight sync pipeline per record id.
// Acquire returns false when another pipeline already holds the record;
// Release must be called by the holder once its pipeline finishes, in
// either direction.
type Claimer interface {
	Acquire(ctx context.Context, recordID string) (bool, error)
	Release(ctx context.Context, recordID string) error
}

// MemoryClaimer tracks in-flight records in process memory. It is the
// default for single-process deployments, which is every capture device.
type MemoryClaimer struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewMemoryClaimer() *MemoryClaimer {
	return &MemoryClaimer{inFlight: make(map[string]struct{})}
}

func (c *MemoryClaimer) Acquire(_ context.Context, recordID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.inFlight[recordID]; held {
		return false, nil
	}
	c.inFlight[recordID] = struct{}{}
	return true, nil
}

func (c *MemoryClaimer) Release(_ context.Context, recordID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, recordID)
	return nil
}
