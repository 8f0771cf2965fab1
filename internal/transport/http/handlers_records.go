package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"veritas/internal/audit"
	"veritas/internal/records"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// CaptureService defines the interface for local record operations.
type CaptureService interface {
	CreateMedia(ctx context.Context, input records.MediaCaptureInput) (records.Record, error)
	CreateConsent(ctx context.Context, input records.ConsentCaptureInput) (records.Record, error)
	List(ctx context.Context) ([]records.Record, error)
	ListPending(ctx context.Context) ([]records.Record, error)
	Get(ctx context.Context, id string) (records.Record, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (records.Stats, error)
}

// AuditTrail is the read side of the custody trail.
type AuditTrail interface {
	ListByRecord(ctx context.Context, recordID string) ([]audit.Event, error)
}

// RecordsHandler wires record capture and query endpoints to the capture
// service.
type RecordsHandler struct {
	service CaptureService
	trail   AuditTrail
	publish audit.Publisher
	logger  *slog.Logger
}

func NewRecordsHandler(service CaptureService, trail AuditTrail, publish audit.Publisher, logger *slog.Logger) *RecordsHandler {
	return &RecordsHandler{service: service, trail: trail, publish: publish, logger: logger}
}

// Register mounts record endpoints on the router.
func (h *RecordsHandler) Register(r chi.Router) {
	r.Post("/records/media", h.HandleCreateMedia)
	r.Post("/records/consent", h.HandleCreateConsent)
	r.Get("/records", h.HandleList)
	r.Get("/records/pending", h.HandleListPending)
	r.Get("/records/stats", h.HandleStats)
	r.Get("/records/{id}", h.HandleGet)
	r.Delete("/records/{id}", h.HandleDelete)
	r.Get("/records/{id}/audit", h.HandleAuditTrail)
}

type locationRequest struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

func (l locationRequest) toDomain() records.Location {
	return records.Location{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Accuracy:  l.Accuracy,
		Timestamp: l.Timestamp,
	}
}

type createMediaRequest struct {
	Kind     string          `json:"kind"`
	FilePath string          `json:"file_path"`
	FileName string          `json:"file_name"`
	Location locationRequest `json:"location"`

	Width           int     `json:"width"`
	Height          int     `json:"height"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// HandleCreateMedia handles POST /records/media requests.
func (h *RecordsHandler) HandleCreateMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[createMediaRequest](w, r, h.logger)
	if !ok {
		return
	}
	kind, err := records.ParseKind(req.Kind)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.CreateMedia(ctx, records.MediaCaptureInput{
		Kind:     kind,
		FilePath: req.FilePath,
		FileName: req.FileName,
		Location: req.Location.toDomain(),
		Media: records.MediaDetails{
			Width:           req.Width,
			Height:          req.Height,
			DurationSeconds: req.DurationSeconds,
		},
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "media capture failed",
			"request_id", requestcontext.RequestID(ctx),
			"kind", req.Kind,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.publish.Emit(ctx, audit.Event{
		Action:    audit.ActionRecordCaptured,
		RecordID:  record.ID,
		OwnerID:   record.OwnerID,
		RequestID: requestcontext.RequestID(ctx),
	})
	httputil.WriteJSON(w, http.StatusCreated, record)
}

type createConsentRequest struct {
	ProjectName      string          `json:"project_name"`
	ConsultationDate string          `json:"consultation_date"`
	Consensus        string          `json:"consensus"`
	Community        string          `json:"community"`
	Developer        string          `json:"developer"`
	Description      string          `json:"description"`
	Participants     string          `json:"participants"`
	Terms            string          `json:"terms"`
	Location         locationRequest `json:"location"`
}

// HandleCreateConsent handles POST /records/consent requests.
func (h *RecordsHandler) HandleCreateConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[createConsentRequest](w, r, h.logger)
	if !ok {
		return
	}

	record, err := h.service.CreateConsent(ctx, records.ConsentCaptureInput{
		Details: records.ConsentDetails{
			ProjectName:      req.ProjectName,
			ConsultationDate: req.ConsultationDate,
			Consensus:        records.Consensus(req.Consensus),
			Community:        req.Community,
			Developer:        req.Developer,
			Description:      req.Description,
			Participants:     req.Participants,
			Terms:            req.Terms,
		},
		Location: req.Location.toDomain(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "consent capture failed",
			"request_id", requestcontext.RequestID(ctx),
			"project", req.ProjectName,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.publish.Emit(ctx, audit.Event{
		Action:    audit.ActionRecordCaptured,
		RecordID:  record.ID,
		OwnerID:   record.OwnerID,
		RequestID: requestcontext.RequestID(ctx),
	})
	httputil.WriteJSON(w, http.StatusCreated, record)
}

// HandleList handles GET /records requests.
func (h *RecordsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": all})
}

// HandleListPending handles GET /records/pending requests.
func (h *RecordsHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.ListPending(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": pending})
}

// HandleStats handles GET /records/stats requests.
func (h *RecordsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandleGet handles GET /records/{id} requests.
func (h *RecordsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleDelete handles DELETE /records/{id} requests.
func (h *RecordsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.publish.Emit(ctx, audit.Event{
		Action:    audit.ActionRecordDeleted,
		RecordID:  id,
		OwnerID:   requestcontext.OwnerID(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
	w.WriteHeader(http.StatusNoContent)
}

// HandleAuditTrail handles GET /records/{id}/audit requests.
func (h *RecordsHandler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	trail, err := h.trail.ListByRecord(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeStorage, "load audit trail", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"record_id": id, "events": trail})
}
