package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, clients, and the hash
// engine return these (optionally wrapped) so services can translate them
// into domain errors.
//
// These represent factual states about resources, not validation failures:
//   - ErrNotFound: entity does not exist in store
//   - ErrStorage: local persistence fault; must propagate, never
//     downgraded to an empty result
//   - ErrContentUnavailable: a record's underlying bytes cannot be read
//   - ErrLedgerUnavailable: anchoring oracle unreachable or refused the
//     commit
//   - ErrTxNotFound: ledger has no anchor for the given transaction id
//   - ErrInvalidState: entity in wrong state for requested operation
//   - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound           = errors.New("not found")
	ErrStorage            = errors.New("storage fault")
	ErrContentUnavailable = errors.New("content unavailable")
	ErrLedgerUnavailable  = errors.New("ledger unavailable")
	ErrTxNotFound         = errors.New("transaction not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrUnavailable        = errors.New("unavailable")
)
