package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyhub/internal/platform/middleware"
	"studyhub/pkg/platform/httputil"
)

// RouterConfig collects what NewRouter mounts besides the API handler.
type RouterConfig struct {
	Logger   *slog.Logger
	Sessions middleware.SessionResolver
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Health backs /healthz; nil always reports ok.
	Health func(ctx context.Context) error
}

// NewRouter builds the full HTTP handler: shared middleware, probes and the
// API under /api.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				cfg.Logger.ErrorContext(r.Context(), "health check failed", "error", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LoadSession(cfg.Sessions, cfg.Logger))
		h.Register(r)
	})
	return r
}
