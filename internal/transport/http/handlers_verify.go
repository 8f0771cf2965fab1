package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veritas/internal/verify"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// maxVerifyUpload bounds uploaded evidence size for streaming verification.
const maxVerifyUpload = 512 << 20

// VerifyService defines the interface for integrity verification.
type VerifyService interface {
	VerifyBytes(ctx context.Context, txID string, content io.Reader) (verify.Result, error)
	VerifyText(ctx context.Context, txID, text string) (verify.Result, error)
	VerifyHash(ctx context.Context, txID, computed string) (verify.Result, error)
}

// VerifyHandler wires verification endpoints to the verify service.
type VerifyHandler struct {
	service VerifyService
	logger  *slog.Logger
}

func NewVerifyHandler(service VerifyService, logger *slog.Logger) *VerifyHandler {
	return &VerifyHandler{service: service, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *VerifyHandler) Register(r chi.Router) {
	r.Post("/verify", h.HandleVerify)
	r.Post("/verify/content", h.HandleVerifyContent)
}

type verifyRequest struct {
	TxID        string `json:"tx_id"`
	Text        string `json:"text"`
	ContentHash string `json:"content_hash"`
}

// HandleVerify handles POST /verify requests carrying either a canonical
// text payload or a precomputed content hash.
func (h *VerifyHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[verifyRequest](w, r, h.logger)
	if !ok {
		return
	}

	var result verify.Result
	var err error
	switch {
	case req.Text != "" && req.ContentHash != "":
		err = dErrors.New(dErrors.CodeInvalidInput, "provide either text or content_hash, not both")
	case req.Text != "":
		result, err = h.service.VerifyText(ctx, req.TxID, req.Text)
	case req.ContentHash != "":
		result, err = h.service.VerifyHash(ctx, req.TxID, req.ContentHash)
	default:
		err = dErrors.New(dErrors.CodeInvalidInput, "provide text or content_hash to verify")
	}
	if err != nil {
		h.logger.WarnContext(ctx, "verification request failed",
			"request_id", requestcontext.RequestID(ctx),
			"tx_id", req.TxID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleVerifyContent handles POST /verify/content requests: the raw
// evidence bytes in the body, the transaction id in the query string. The
// body is hashed as a stream so large media never lands in memory.
func (h *VerifyHandler) HandleVerifyContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	txID := r.URL.Query().Get("tx_id")

	result, err := h.service.VerifyBytes(ctx, txID, http.MaxBytesReader(w, r.Body, maxVerifyUpload))
	if err != nil {
		h.logger.WarnContext(ctx, "content verification failed",
			"request_id", requestcontext.RequestID(ctx),
			"tx_id", txID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
