package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"veritas/pkg/platform/sentinel"
)

// MemoryLedger is an in-process anchoring oracle for offline, development,
// and test use. A configurable latency mimics real-world calls; FailCommits
// simulates ledger outages.
type MemoryLedger struct {
	Latency     time.Duration
	FailCommits bool

	mu      sync.RWMutex
	anchors map[string]anchor
}

type anchor struct {
	contentHash string
	metadata    map[string]string
	committedAt time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{anchors: make(map[string]anchor)}
}

func (l *MemoryLedger) Commit(ctx context.Context, contentHash string, metadata map[string]string) (string, error) {
	if l.Latency > 0 {
		select {
		case <-time.After(l.Latency):
		case <-ctx.Done():
			return "", fmt.Errorf("anchor commit: %w: %w", sentinel.ErrLedgerUnavailable, ctx.Err())
		}
	}
	if l.FailCommits {
		return "", fmt.Errorf("anchor commit refused: %w", sentinel.ErrLedgerUnavailable)
	}
	if contentHash == "" {
		return "", fmt.Errorf("anchor commit without content hash: %w", sentinel.ErrLedgerUnavailable)
	}

	txID := "0x" + strings.ReplaceAll(uuid.NewString(), "-", "")

	l.mu.Lock()
	defer l.mu.Unlock()
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	l.anchors[txID] = anchor{
		contentHash: contentHash,
		metadata:    meta,
		committedAt: time.Now(),
	}
	return txID, nil
}

func (l *MemoryLedger) Resolve(_ context.Context, txID string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.anchors[txID]
	if !ok {
		return "", fmt.Errorf("anchor resolve %s: %w", txID, sentinel.ErrTxNotFound)
	}
	return a.contentHash, nil
}
