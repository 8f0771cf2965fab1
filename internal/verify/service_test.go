package verify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"veritas/internal/audit"
	"veritas/internal/hashing"
	"veritas/internal/ledger"
	"veritas/internal/platform/logger"
	dErrors "veritas/pkg/domain-errors"
)

type failingLedger struct{}

func (failingLedger) Commit(context.Context, string, map[string]string) (string, error) {
	return "", errors.New("unreachable")
}

func (failingLedger) Resolve(context.Context, string) (string, error) {
	return "", dErrors.Wrap(dErrors.CodeLedgerUnavailable, "resolve", errors.New("oracle down"))
}

type VerifyServiceSuite struct {
	suite.Suite

	ledger  *ledger.MemoryLedger
	trail   *audit.InMemoryStore
	service *Service
}

func TestVerifyServiceSuite(t *testing.T) {
	suite.Run(t, new(VerifyServiceSuite))
}

func (s *VerifyServiceSuite) SetupTest() {
	s.ledger = ledger.NewMemoryLedger()
	s.trail = audit.NewInMemoryStore()
	log := logger.Discard()
	s.service = NewService(s.ledger, hashing.NewEngine(), audit.NewStorePublisher(s.trail, log), log, nil)
}

func (s *VerifyServiceSuite) anchor(content []byte) string {
	digest, err := hashing.NewEngine().DigestBytes(bytes.NewReader(content))
	s.Require().NoError(err)
	txID, err := s.ledger.Commit(context.Background(), digest, nil)
	s.Require().NoError(err)
	return txID
}

func (s *VerifyServiceSuite) TestUntamperedContentMatches() {
	content := []byte("original evidence bytes")
	txID := s.anchor(content)

	result, err := s.service.VerifyBytes(context.Background(), txID, bytes.NewReader(content))
	s.Require().NoError(err)

	s.True(result.Matched)
	s.Equal(ReasonHashMatch, result.Reason)
	s.Equal(result.AnchoredHash, result.ComputedHash)
	s.Equal(txID, result.TxID)
}

func (s *VerifyServiceSuite) TestTamperedContentMismatches() {
	txID := s.anchor([]byte("original evidence bytes"))

	result, err := s.service.VerifyBytes(context.Background(), txID, bytes.NewReader([]byte("original evidence bytes.")))
	s.Require().NoError(err)

	s.False(result.Matched)
	s.Equal(ReasonHashMismatch, result.Reason)
	s.NotEmpty(result.AnchoredHash)
	s.NotEqual(result.AnchoredHash, result.ComputedHash)
}

func (s *VerifyServiceSuite) TestUnknownTransactionIsNegativeAnswer() {
	result, err := s.service.VerifyBytes(context.Background(), "0xdeadbeef", bytes.NewReader([]byte("whatever")))
	s.Require().NoError(err, "an unknown tx is an answer, not a failure")

	s.False(result.Matched)
	s.Equal(ReasonTxNotFound, result.Reason)
	s.Empty(result.AnchoredHash)
	s.NotEmpty(result.ComputedHash)
}

func (s *VerifyServiceSuite) TestConsentTextRoundTrip() {
	payload := `{"project_name":"Rio Verde Hydro","consultation_date":"2026-03-10","consensus":"Granted","community":"Alto Mayo","captured_at":"2026-03-14T09:00:00Z"}`
	digest := hashing.NewEngine().DigestText(payload)
	txID, err := s.ledger.Commit(context.Background(), digest, nil)
	s.Require().NoError(err)

	result, err := s.service.VerifyText(context.Background(), txID, payload)
	s.Require().NoError(err)
	s.True(result.Matched)
}

func (s *VerifyServiceSuite) TestPrecomputedHash() {
	txID := s.anchor([]byte("field recording"))
	digest, err := hashing.NewEngine().DigestBytes(bytes.NewReader([]byte("field recording")))
	s.Require().NoError(err)

	result, err := s.service.VerifyHash(context.Background(), txID, digest)
	s.Require().NoError(err)
	s.True(result.Matched)

	_, err = s.service.VerifyHash(context.Background(), txID, "")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeInvalidInput))
}

func (s *VerifyServiceSuite) TestMissingTxID() {
	_, err := s.service.VerifyText(context.Background(), "", "payload")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeInvalidInput))
}

func (s *VerifyServiceSuite) TestLedgerOutageIsAnError() {
	log := logger.Discard()
	svc := NewService(failingLedger{}, hashing.NewEngine(), audit.NewStorePublisher(s.trail, log), log, nil)

	_, err := svc.VerifyText(context.Background(), "0xabc", "payload")
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeLedgerUnavailable))
}

func (s *VerifyServiceSuite) TestVerifyWithoutAuditSink() {
	txID := s.anchor([]byte("unaudited bytes"))
	svc := NewService(s.ledger, hashing.NewEngine(), nil, logger.Discard(), nil)

	result, err := svc.VerifyBytes(context.Background(), txID, bytes.NewReader([]byte("unaudited bytes")))
	s.Require().NoError(err)
	s.True(result.Matched)
}

func (s *VerifyServiceSuite) TestVerificationIsAudited() {
	txID := s.anchor([]byte("audited bytes"))

	_, err := s.service.VerifyBytes(context.Background(), txID, bytes.NewReader([]byte("audited bytes")))
	s.Require().NoError(err)

	trail, err := s.trail.ListByRecord(context.Background(), "")
	s.Require().NoError(err)
	s.Require().Len(trail, 1)
	s.Equal(audit.ActionRecordVerified, trail[0].Action)
	s.Equal(txID, trail[0].TxID)
	s.Equal(ReasonHashMatch, trail[0].Reason)
}
