package httptransport

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"veritas/internal/remote"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/requestcontext"
)

// defaultRegionRadiusKm applies when a region query omits the radius.
const defaultRegionRadiusKm = 50

// RemoteHandler exposes the synced mirror for review surfaces: fetch by
// id, by owner, or by capture region.
type RemoteHandler struct {
	store  remote.Store
	logger *slog.Logger
}

func NewRemoteHandler(store remote.Store, logger *slog.Logger) *RemoteHandler {
	return &RemoteHandler{store: store, logger: logger}
}

// Register mounts mirror query endpoints on the router.
func (h *RemoteHandler) Register(r chi.Router) {
	r.Get("/remote/records", h.HandleQuery)
	r.Get("/remote/records/{id}", h.HandleGet)
}

// HandleQuery handles GET /remote/records requests. With an owner query
// parameter it scopes to that owner; with lat and lng it scopes to a
// region; otherwise it returns the full mirror, newest capture first.
func (h *RemoteHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		result []remote.SyncedRecord
		err    error
	)
	switch {
	case q.Get("owner") != "":
		result, err = h.store.GetByOwner(ctx, q.Get("owner"))
	case q.Get("lat") != "" || q.Get("lng") != "":
		var lat, lng, radius float64
		lat, lng, radius, err = parseRegionQuery(q.Get("lat"), q.Get("lng"), q.Get("radius_km"))
		if err == nil {
			result, err = h.store.GetByRegion(ctx, lat, lng, radius)
		}
	default:
		result, err = h.store.GetAll(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "mirror query failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, translateRemoteErr(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": result})
}

// HandleGet handles GET /remote/records/{id} requests.
func (h *RemoteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	record, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, translateRemoteErr(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func parseRegionQuery(latStr, lngStr, radiusStr string) (lat, lng, radius float64, err error) {
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, 0, dErrors.New(dErrors.CodeInvalidInput, "invalid lat")
	}
	lng, err = strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, 0, dErrors.New(dErrors.CodeInvalidInput, "invalid lng")
	}
	radius = defaultRegionRadiusKm
	if radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			return 0, 0, 0, dErrors.New(dErrors.CodeInvalidInput, "invalid radius_km")
		}
	}
	return lat, lng, radius, nil
}

func translateRemoteErr(err error) error {
	var de *dErrors.DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "synced record not found")
	}
	return dErrors.Wrap(dErrors.CodeStorage, "query synced records", err)
}
