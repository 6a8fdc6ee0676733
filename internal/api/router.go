package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sqlgen/internal/middleware"
	"sqlgen/internal/ui"
)

// RouterConfig configures the middleware stack of NewRouter.
type RouterConfig struct {
	Logger      *slog.Logger
	RateLimit   middleware.RateLimitConfig
	CORSOrigins []string
	// UI mounts the HTML form when non-nil.
	UI *ui.Handler
}

// NewRouter builds the HTTP handler for the JSON API and, optionally, the
// HTML form. ctx bounds background work such as rate-limiter cleanup.
func NewRouter(ctx context.Context, h *APIHandler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/healthz", h.Health)

	r.Route("/v1", func(r chi.Router) {
		if cfg.RateLimit.RequestsPerSecond > 0 {
			r.Use(middleware.RateLimiter(ctx, cfg.RateLimit))
		}
		r.Get("/tables", h.ListTables)
		r.Get("/tables/{table}", h.GetTable)
		r.Post("/statements/insert", h.CreateInsert)
		r.Post("/statements/update", h.CreateUpdate)
		r.Post("/validate", h.Validate)
	})

	if cfg.UI != nil {
		ui.MountRoutes(r, cfg.UI)
	}
	return r
}
