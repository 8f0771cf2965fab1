// Package httptransport assembles the HTTP surface: middleware chain,
// feature handlers, health, and metrics. Handlers stay thin and delegate to
// domain services.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veritas/internal/platform/middleware"
	"veritas/pkg/platform/httputil"
)

// Registrar mounts a feature's routes on the API router.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig collects the cross-cutting pieces the router needs beyond
// the feature handlers themselves.
type RouterConfig struct {
	Logger         *slog.Logger
	JWTValidator   middleware.JWTValidator
	RequestTimeout time.Duration
	Health         func() error
}

// NewRouter builds the full HTTP handler: observability middleware first,
// then identity resolution, then the API routes.
func NewRouter(cfg RouterConfig, handlers ...Registrar) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))

	r.Get("/healthz", healthHandler(cfg.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(middleware.ContentTypeJSON)
		if cfg.JWTValidator != nil {
			api.Use(middleware.OwnerIdentity(cfg.JWTValidator, cfg.Logger))
		}
		for _, h := range handlers {
			h.Register(api)
		}
	})

	return r
}

func healthHandler(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
