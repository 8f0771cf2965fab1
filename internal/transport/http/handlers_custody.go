package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"veritas/internal/custody"
	"veritas/internal/records"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// SyncService defines the interface for sync pipeline operations.
type SyncService interface {
	SyncAll(ctx context.Context) (custody.BatchResult, error)
	SyncRecord(ctx context.Context, recordID string) (records.Record, error)
	Retry(ctx context.Context, recordID string) (records.Record, error)
}

// CustodyHandler wires sync endpoints to the sync orchestrator.
type CustodyHandler struct {
	service SyncService
	logger  *slog.Logger
}

func NewCustodyHandler(service SyncService, logger *slog.Logger) *CustodyHandler {
	return &CustodyHandler{service: service, logger: logger}
}

// Register mounts sync endpoints on the router.
func (h *CustodyHandler) Register(r chi.Router) {
	r.Post("/sync", h.HandleSyncAll)
	r.Post("/records/{id}/sync", h.HandleSyncRecord)
	r.Post("/records/{id}/retry", h.HandleRetry)
}

// HandleSyncAll handles POST /sync requests.
func (h *CustodyHandler) HandleSyncAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	result, err := h.service.SyncAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "batch sync failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "batch sync handled",
		"request_id", requestcontext.RequestID(ctx),
		"total", result.Total,
		"synced", result.Synced,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleSyncRecord handles POST /records/{id}/sync requests.
func (h *CustodyHandler) HandleSyncRecord(w http.ResponseWriter, r *http.Request) {
	h.syncOne(w, r, h.service.SyncRecord)
}

// HandleRetry handles POST /records/{id}/retry requests.
func (h *CustodyHandler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	h.syncOne(w, r, h.service.Retry)
}

func (h *CustodyHandler) syncOne(w http.ResponseWriter, r *http.Request, run func(context.Context, string) (records.Record, error)) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	record, err := run(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "record sync request failed",
			"request_id", requestcontext.RequestID(ctx),
			"record_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}
