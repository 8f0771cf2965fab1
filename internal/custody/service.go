// Package custody drives pending records through the sync pipeline:
// upload, ledger anchor, remote metadata write, then the COMPLETE commit.
// Each step's output is persisted before the next step runs, so a failed
// sync resumes at its first incomplete step instead of starting over.
package custody

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"veritas/internal/audit"
	"veritas/internal/blob"
	"veritas/internal/ledger"
	"veritas/internal/platform/metrics"
	"veritas/internal/records"
	"veritas/internal/remote"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/requestcontext"
)

// Hasher is the slice of the hash engine the pipeline needs for records
// that arrive without a fingerprint.
type Hasher interface {
	DigestFile(path string) (string, error)
	DigestText(text string) string
}

// Deps wires the orchestrator's collaborators. All are required except
// Audit and Metrics, which no-op when absent.
type Deps struct {
	Store    records.Store
	Hasher   Hasher
	Ledger   ledger.Client
	Uploader blob.Uploader
	Remote   remote.Store
	Claims   Claimer
	Audit    audit.Publisher
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	// Concurrency bounds the batch fan-out. Per-record claims make this a
	// throughput knob, not a correctness one.
	Concurrency int
}

// Service is the sync orchestrator. It is the only component that moves a
// record's SyncStatus.
type Service struct {
	deps   Deps
	tracer trace.Tracer
}

func NewService(deps Deps) *Service {
	if deps.Concurrency <= 0 {
		deps.Concurrency = 4
	}
	if deps.Audit == nil {
		deps.Audit = audit.NopPublisher{}
	}
	return &Service{
		deps:   deps,
		tracer: otel.Tracer("veritas/custody"),
	}
}

// Outcome reports one record's result within a batch.
type Outcome struct {
	RecordID string             `json:"record_id"`
	Status   records.SyncStatus `json:"status"`
	Error    string             `json:"error,omitempty"`
}

// BatchResult aggregates a batch sync. Failures never halt the batch; each
// record's outcome is independent.
type BatchResult struct {
	Total    int       `json:"total"`
	Synced   int       `json:"synced"`
	Failed   int       `json:"failed"`
	Skipped  int       `json:"skipped"`
	Outcomes []Outcome `json:"outcomes"`
}

// SyncAll drives every not-yet-synced record through the pipeline with
// bounded concurrency. The batch can be interrupted between records via
// ctx; records already COMPLETE stay complete.
func (s *Service) SyncAll(ctx context.Context) (BatchResult, error) {
	all, err := s.deps.Store.LoadAll(ctx)
	if err != nil {
		return BatchResult{}, dErrors.Wrap(dErrors.CodeStorage, "load pending records", err)
	}

	var pending []records.Record
	for _, r := range all {
		if r.SyncStatus.IsPending() {
			pending = append(pending, r)
		}
	}

	result := BatchResult{Total: len(pending)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.deps.Concurrency)
	for _, r := range pending {
		recordID := r.ID
		g.Go(func() error {
			synced, err := s.SyncRecord(gctx, recordID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Synced++
				result.Outcomes = append(result.Outcomes, Outcome{RecordID: recordID, Status: synced.SyncStatus})
			case dErrors.Is(err, dErrors.CodeConflict):
				result.Skipped++
				result.Outcomes = append(result.Outcomes, Outcome{RecordID: recordID, Status: records.StatusSyncing, Error: err.Error()})
			default:
				result.Failed++
				result.Outcomes = append(result.Outcomes, Outcome{RecordID: recordID, Status: records.StatusError, Error: err.Error()})
			}
			// A record's failure is its own; the batch carries on.
			return nil
		})
	}
	_ = g.Wait()

	s.deps.Logger.InfoContext(ctx, "batch sync finished",
		"total", result.Total,
		"synced", result.Synced,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)
	return result, nil
}

// SyncRecord claims a single record and runs its pipeline to COMPLETE or
// ERROR. A record already held by another pipeline returns CodeConflict; a
// record already COMPLETE returns unchanged.
func (s *Service) SyncRecord(ctx context.Context, recordID string) (records.Record, error) {
	ctx, span := s.tracer.Start(ctx, "custody.sync_record",
		trace.WithAttributes(attribute.String("record.id", recordID)))
	defer span.End()

	claimed, err := s.deps.Claims.Acquire(ctx, recordID)
	if err != nil {
		return records.Record{}, dErrors.Wrap(dErrors.CodeUnavailable, "acquire sync claim", err)
	}
	if !claimed {
		return records.Record{}, dErrors.New(dErrors.CodeConflict, "sync already in flight for record "+recordID)
	}
	defer func() {
		if err := s.deps.Claims.Release(context.WithoutCancel(ctx), recordID); err != nil {
			s.deps.Logger.WarnContext(ctx, "release sync claim failed", "record_id", recordID, "error", err)
		}
	}()

	record, err := s.deps.Store.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return records.Record{}, dErrors.New(dErrors.CodeNotFound, "record not found: "+recordID)
		}
		return records.Record{}, dErrors.Wrap(dErrors.CodeStorage, "load record", err)
	}
	if record.SyncStatus == records.StatusComplete {
		return record, nil
	}

	s.deps.Metrics.IncSyncsStarted()

	record, err = s.enterSyncing(ctx, record)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "enter syncing")
		return records.Record{}, err
	}

	record, err = s.runPipeline(ctx, record)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "pipeline failed")
		return s.failRecord(ctx, record, err)
	}

	s.deps.Metrics.IncSyncsSucceeded()
	s.deps.Audit.Emit(ctx, audit.Event{
		Action:    audit.ActionRecordSynced,
		RecordID:  record.ID,
		OwnerID:   record.OwnerID,
		TxID:      record.LedgerTxID,
		RequestID: requestcontext.RequestID(ctx),
	})
	s.deps.Logger.InfoContext(ctx, "record synced",
		"record_id", record.ID,
		"tx_id", record.LedgerTxID,
	)
	return record, nil
}

// Retry re-enters the pipeline for a record that previously failed. The
// pipeline resumes at the first incomplete step; already-durable partial
// results (an uploaded URL, an anchor) are not repeated.
func (s *Service) Retry(ctx context.Context, recordID string) (records.Record, error) {
	return s.SyncRecord(ctx, recordID)
}

// enterSyncing computes a missing content hash while the record is still in
// the pending superstate, then claims it into SYNCING. A fingerprint must
// exist before the record leaves pending; an unreadable source fails the
// attempt rather than fabricating one.
func (s *Service) enterSyncing(ctx context.Context, record records.Record) (records.Record, error) {
	if record.SyncStatus == records.StatusSyncing {
		// Crash recovery: a previous holder died mid-pipeline. We hold the
		// claim now, so resume from the first incomplete step.
		return record, nil
	}
	if record.ContentHash == "" {
		start := time.Now()
		var digest string
		var err error
		if record.Kind.IsMedia() {
			digest, err = s.deps.Hasher.DigestFile(record.ContentRef)
		} else {
			digest = s.deps.Hasher.DigestText(record.ContentRef)
		}
		s.deps.Metrics.ObserveSyncStep("hash", time.Since(start).Seconds())
		if err != nil {
			// Still pending: nothing durable has changed, so no ERROR
			// transition, and retry is possible once content is restored.
			return records.Record{}, dErrors.Wrap(dErrors.CodeContentUnavailable, "fingerprint content", err)
		}
		record.ContentHash = digest
		if err := s.deps.Store.Save(ctx, record); err != nil {
			return records.Record{}, dErrors.Wrap(dErrors.CodeStorage, "persist content hash", err)
		}
	}
	if err := record.TransitionTo(records.StatusSyncing); err != nil {
		return records.Record{}, dErrors.Wrap(dErrors.CodeConflict, "record not syncable", err)
	}
	if err := s.deps.Store.Save(ctx, record); err != nil {
		return records.Record{}, dErrors.Wrap(dErrors.CodeStorage, "persist syncing state", err)
	}
	return record, nil
}

// runPipeline executes upload, anchor, and metadata write in order,
// skipping steps whose output is already attached from a previous attempt.
func (s *Service) runPipeline(ctx context.Context, record records.Record) (records.Record, error) {
	if record.Kind.IsMedia() && record.RemoteContentURL == "" {
		start := time.Now()
		url, err := s.deps.Uploader.Upload(ctx, record.ContentRef, record.FileName)
		s.deps.Metrics.ObserveSyncStep("upload", time.Since(start).Seconds())
		if err != nil {
			return record, dErrors.Wrap(classifyStepErr(err), "upload content", err)
		}
		record.RemoteContentURL = url
		if err := s.deps.Store.Save(ctx, record); err != nil {
			return record, dErrors.Wrap(dErrors.CodeStorage, "persist uploaded url", err)
		}
	}

	if record.LedgerTxID == "" {
		start := time.Now()
		txID, err := s.deps.Ledger.Commit(ctx, record.ContentHash, anchorMetadata(record))
		s.deps.Metrics.ObserveSyncStep("anchor", time.Since(start).Seconds())
		if err != nil {
			return record, dErrors.Wrap(classifyStepErr(err), "anchor content hash", err)
		}
		record.LedgerTxID = txID
		if err := s.deps.Store.Save(ctx, record); err != nil {
			return record, dErrors.Wrap(dErrors.CodeStorage, "persist ledger anchor", err)
		}
	}

	syncedAt := requestcontext.Now(ctx)
	start := time.Now()
	err := s.deps.Remote.Put(ctx, remote.FromRecord(record, syncedAt))
	s.deps.Metrics.ObserveSyncStep("metadata", time.Since(start).Seconds())
	if err != nil {
		return record, dErrors.Wrap(classifyStepErr(err), "write remote metadata", err)
	}

	record.SyncedAt = &syncedAt
	if err := record.TransitionTo(records.StatusComplete); err != nil {
		return record, dErrors.Wrap(dErrors.CodeInternal, "commit complete state", err)
	}
	if err := s.deps.Store.Save(ctx, record); err != nil {
		return record, dErrors.Wrap(dErrors.CodeStorage, "persist complete state", err)
	}
	return record, nil
}

// failRecord moves a mid-pipeline record to ERROR, keeping whatever partial
// results were durably attached so retry resumes instead of restarting.
func (s *Service) failRecord(ctx context.Context, record records.Record, cause error) (records.Record, error) {
	s.deps.Metrics.IncSyncsFailed()
	if record.SyncStatus == records.StatusSyncing {
		if err := record.TransitionTo(records.StatusError); err == nil {
			if saveErr := s.deps.Store.Save(ctx, record); saveErr != nil {
				s.deps.Logger.ErrorContext(ctx, "persist error state failed",
					"record_id", record.ID, "error", saveErr)
			}
		}
	}
	s.deps.Audit.Emit(ctx, audit.Event{
		Action:    audit.ActionSyncFailed,
		RecordID:  record.ID,
		OwnerID:   record.OwnerID,
		Reason:    cause.Error(),
		RequestID: requestcontext.RequestID(ctx),
	})
	s.deps.Logger.WarnContext(ctx, "record sync failed",
		"record_id", record.ID,
		"error", cause,
	)
	return record, cause
}

// anchorMetadata is the opaque audit context committed alongside the hash.
// It never participates in hash computation.
func anchorMetadata(record records.Record) map[string]string {
	meta := map[string]string{
		"kind":        record.Kind.String(),
		"owner_id":    record.OwnerID,
		"captured_at": record.CapturedAt.UTC().Format(time.RFC3339),
	}
	if record.FileName != "" {
		meta["file_name"] = record.FileName
	}
	if record.Consent != nil {
		meta["project_name"] = record.Consent.ProjectName
		meta["community"] = record.Consent.Community
		meta["consensus"] = string(record.Consent.Consensus)
	}
	return meta
}

// classifyStepErr maps infrastructure sentinels from pipeline steps onto
// the error taxonomy surfaced to callers.
func classifyStepErr(err error) dErrors.Code {
	switch {
	case errors.Is(err, sentinel.ErrLedgerUnavailable):
		return dErrors.CodeLedgerUnavailable
	case errors.Is(err, sentinel.ErrContentUnavailable):
		return dErrors.CodeContentUnavailable
	case errors.Is(err, sentinel.ErrStorage):
		return dErrors.CodeStorage
	default:
		return dErrors.CodeUnavailable
	}
}
