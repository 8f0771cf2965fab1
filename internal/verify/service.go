// Package verify answers the integrity question independently of records
// already held: given content and a ledger transaction id, does the content
// still match what was anchored? It never reads or writes the record store,
// so a tampered local file cannot vouch for itself.
package verify

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"veritas/internal/audit"
	"veritas/internal/ledger"
	"veritas/internal/platform/metrics"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/requestcontext"
)

// Outcome reasons reported on Result. TxNotFound and HashMismatch are
// verification answers, not errors; only infrastructure faults surface as
// errors from the service.
const (
	ReasonHashMatch    = "hash_match"
	ReasonHashMismatch = "hash_mismatch"
	ReasonTxNotFound   = "tx_not_found"
)

// Hasher is the digest slice the service needs.
type Hasher interface {
	DigestBytes(r io.Reader) (string, error)
	DigestText(text string) string
}

// Result is a completed verification. AnchoredHash is empty when the
// transaction could not be resolved.
type Result struct {
	Matched      bool   `json:"matched"`
	Reason       string `json:"reason"`
	TxID         string `json:"tx_id"`
	AnchoredHash string `json:"anchored_hash,omitempty"`
	ComputedHash string `json:"computed_hash"`
}

// Service recomputes content fingerprints and compares them against the
// ledger's anchored values.
type Service struct {
	ledger  ledger.Client
	hasher  Hasher
	audit   audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(lc ledger.Client, hasher Hasher, publisher audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	if publisher == nil {
		publisher = audit.NopPublisher{}
	}
	return &Service{
		ledger:  lc,
		hasher:  hasher,
		audit:   publisher,
		logger:  logger,
		metrics: m,
	}
}

// VerifyBytes recomputes the fingerprint of the presented content stream
// and compares it against the hash anchored under txID.
func (s *Service) VerifyBytes(ctx context.Context, txID string, content io.Reader) (Result, error) {
	computed, err := s.hasher.DigestBytes(content)
	if err != nil {
		return Result{}, dErrors.Wrap(dErrors.CodeContentUnavailable, "fingerprint presented content", err)
	}
	return s.compare(ctx, txID, computed)
}

// VerifyText verifies canonical text payloads, the consent record path.
func (s *Service) VerifyText(ctx context.Context, txID, text string) (Result, error) {
	return s.compare(ctx, txID, s.hasher.DigestText(text))
}

// VerifyHash verifies a fingerprint the caller computed elsewhere, for
// devices that hold the hash but no longer hold the content.
func (s *Service) VerifyHash(ctx context.Context, txID, computed string) (Result, error) {
	if computed == "" {
		return Result{}, dErrors.New(dErrors.CodeInvalidInput, "computed hash is required")
	}
	return s.compare(ctx, txID, computed)
}

func (s *Service) compare(ctx context.Context, txID, computed string) (Result, error) {
	if txID == "" {
		return Result{}, dErrors.New(dErrors.CodeInvalidInput, "transaction id is required")
	}

	anchored, err := s.ledger.Resolve(ctx, txID)
	if err != nil {
		if errors.Is(err, sentinel.ErrTxNotFound) {
			// An unknown transaction is a definitive negative answer: the
			// content cannot be vouched for.
			return s.finish(ctx, Result{
				Matched:      false,
				Reason:       ReasonTxNotFound,
				TxID:         txID,
				ComputedHash: computed,
			}), nil
		}
		return Result{}, dErrors.Wrap(dErrors.CodeLedgerUnavailable, "resolve anchored hash", err)
	}

	result := Result{
		Matched:      anchored == computed,
		Reason:       ReasonHashMatch,
		TxID:         txID,
		AnchoredHash: anchored,
		ComputedHash: computed,
	}
	if !result.Matched {
		result.Reason = ReasonHashMismatch
	}
	return s.finish(ctx, result), nil
}

func (s *Service) finish(ctx context.Context, result Result) Result {
	s.metrics.IncVerifications(result.Reason)
	s.audit.Emit(ctx, audit.Event{
		Action:    audit.ActionRecordVerified,
		TxID:      result.TxID,
		Reason:    result.Reason,
		OwnerID:   requestcontext.OwnerID(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "verification finished",
		"tx_id", result.TxID,
		"matched", result.Matched,
		"reason", result.Reason,
	)
	return result
}
