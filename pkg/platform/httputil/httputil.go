// Package httputil holds the shared response and decode helpers for HTTP
// handlers. Handlers return domain errors; this package is the single place
// that turns them into wire responses.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "veritas/pkg/domain-errors"
)

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto its HTTP status and body. Server-side
// faults keep their detail out of the response; the log line carries it.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	resp := errorResponse{Error: wireCode(code)}
	if status < http.StatusInternalServerError {
		var de *dErrors.DomainError
		if errors.As(err, &de) {
			resp.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, status, resp)
}

// wireCode is the stable error identifier clients branch on.
func wireCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeInternal, dErrors.CodeStorage:
		return "internal_error"
	default:
		return string(code)
	}
}

// Decode parses the JSON request body into T, writing a bad request
// response on failure. The second return reports whether the handler
// should continue.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(r.Context(), "request body decode failed", "error", err)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		var zero T
		return zero, false
	}
	return req, true
}
