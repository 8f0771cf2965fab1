// Package ledger talks to the anchoring oracle: an external service that
// commits a content hash and returns an opaque transaction id, and later
// resolves that id back to the anchored hash. The engine treats the ledger
// as an oracle, not a blockchain it participates in.
package ledger

import "context"

// Client anchors and resolves content hashes.
//
// Commit fails with sentinel.ErrLedgerUnavailable on any transport or
// anchoring fault; it never returns a synthesized transaction id, because a
// fabricated id would make anchor presence meaningless to verification.
// Resolve fails with sentinel.ErrTxNotFound for unknown transaction ids.
// Metadata is opaque audit context; it never participates in the hash.
type Client interface {
	Commit(ctx context.Context, contentHash string, metadata map[string]string) (string, error)
	Resolve(ctx context.Context, txID string) (string, error)
}
