package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"veritas/internal/platform/metrics"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/requestcontext"
)

// Hasher is the slice of the hash engine the capture path needs.
type Hasher interface {
	DigestFile(path string) (string, error)
	DigestText(text string) string
}

// Service creates and manages custody records on the capture side.
// Records enter the world LOCAL_ONLY with their content hash already
// computed; the sync orchestrator is the only component that moves them
// further.
type Service struct {
	store   Store
	hasher  Hasher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(store Store, hasher Hasher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, hasher: hasher, logger: logger, metrics: m}
}

// MediaCaptureInput describes a freshly captured photo or video.
type MediaCaptureInput struct {
	Kind     Kind
	FilePath string
	FileName string
	Location Location
	Media    MediaDetails
}

// ConsentCaptureInput describes a structured FPIC decision.
type ConsentCaptureInput struct {
	Details  ConsentDetails
	Location Location
}

// CreateMedia registers captured media as a LOCAL_ONLY custody record,
// fingerprinting the file immediately so the hash reflects the bytes as
// captured. An unreadable file fails the capture; a fabricated hash would
// defeat later verification.
func (s *Service) CreateMedia(ctx context.Context, input MediaCaptureInput) (Record, error) {
	if !input.Kind.IsMedia() {
		return Record{}, dErrors.New(dErrors.CodeInvalidInput, "media capture requires a photo or video kind")
	}
	if input.FilePath == "" {
		return Record{}, dErrors.New(dErrors.CodeInvalidInput, "media capture requires a file path")
	}
	digest, err := s.hasher.DigestFile(input.FilePath)
	if err != nil {
		return Record{}, dErrors.Wrap(dErrors.CodeContentUnavailable, "capture content unreadable", err)
	}
	now := requestcontext.Now(ctx)
	fileName := input.FileName
	if fileName == "" {
		fileName = defaultFileName(input.Kind, now)
	}
	record := Record{
		ID:          uuid.NewString(),
		Kind:        input.Kind,
		FileName:    fileName,
		ContentRef:  input.FilePath,
		Location:    input.Location,
		CapturedAt:  now,
		ContentHash: digest,
		SyncStatus:  StatusLocalOnly,
		OwnerID:     requestcontext.OwnerID(ctx),
	}
	if input.Media != (MediaDetails{}) {
		media := input.Media
		record.Media = &media
	}
	return s.persistNew(ctx, record)
}

// CreateConsent registers an FPIC decision as a LOCAL_ONLY custody record.
// The canonical serialized payload stands in for file bytes: it is both the
// record's content reference and the input to its fingerprint.
func (s *Service) CreateConsent(ctx context.Context, input ConsentCaptureInput) (Record, error) {
	d := input.Details
	if d.ProjectName == "" || d.ConsultationDate == "" {
		return Record{}, dErrors.New(dErrors.CodeInvalidInput, "consent record requires project name and consultation date")
	}
	if _, err := ParseConsensus(string(d.Consensus)); err != nil {
		return Record{}, err
	}
	now := requestcontext.Now(ctx)
	payload := CanonicalConsentPayload(d, now)
	record := Record{
		ID:          uuid.NewString(),
		Kind:        KindConsent,
		ContentRef:  payload,
		Location:    input.Location,
		CapturedAt:  now,
		ContentHash: s.hasher.DigestText(payload),
		SyncStatus:  StatusLocalOnly,
		OwnerID:     requestcontext.OwnerID(ctx),
		Consent:     &d,
	}
	return s.persistNew(ctx, record)
}

func (s *Service) persistNew(ctx context.Context, record Record) (Record, error) {
	if err := s.store.Save(ctx, record); err != nil {
		return Record{}, dErrors.Wrap(dErrors.CodeStorage, "persist captured record", err)
	}
	s.metrics.IncRecordsCaptured(record.Kind.String())
	s.logger.InfoContext(ctx, "record captured",
		"record_id", record.ID,
		"kind", record.Kind,
		"owner_id", record.OwnerID,
	)
	return record, nil
}

// List returns the committed local collection.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeStorage, "load records", err)
	}
	return all, nil
}

// ListPending returns records awaiting their first successful sync.
func (s *Service) ListPending(ctx context.Context) ([]Record, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]Record, 0, len(all))
	for _, r := range all {
		if r.SyncStatus.IsPending() {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// Get returns a single record by id.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Record{}, translateStoreErr(err, id)
	}
	return record, nil
}

// Delete removes a record permanently. Custody records have no soft delete;
// an explicit user decision is the only path that discards evidence.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return dErrors.Wrap(dErrors.CodeStorage, "delete record", err)
	}
	s.logger.InfoContext(ctx, "record deleted", "record_id", id)
	return nil
}

// Stats summarizes the local collection for the dashboard surface.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Syncing   int `json:"syncing"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Total: len(all)}
	for _, r := range all {
		switch {
		case r.SyncStatus.IsPending():
			stats.Pending++
		case r.SyncStatus == StatusSyncing:
			stats.Syncing++
		case r.SyncStatus == StatusComplete:
			stats.Completed++
		case r.SyncStatus == StatusError:
			stats.Failed++
		}
	}
	return stats, nil
}

func defaultFileName(kind Kind, now time.Time) string {
	ext := "jpg"
	if kind == KindVideo {
		ext = "mp4"
	}
	return fmt.Sprintf("%s_%d.%s", kind, now.UnixMilli(), ext)
}
