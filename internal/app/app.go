// Package app wires the metadata loader, the generator and the HTTP router
// from a Config.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"sqlgen/internal/api"
	"sqlgen/internal/config"
	"sqlgen/internal/metadata"
	"sqlgen/internal/middleware"
	"sqlgen/internal/service"
	"sqlgen/internal/storage"
	"sqlgen/internal/ui"
)

// Deps holds what main() must provide.
type Deps struct {
	Cfg    *config.Config
	Logger *slog.Logger
	// Loader defaults to a Loader backed by a storage router built from Cfg.
	Loader *metadata.Loader
}

// App is the fully wired application.
type App struct {
	Generator *service.Generator
	Handler   http.Handler
}

// New loads the metadata named by deps.Cfg.Metadata and builds the router.
// ctx bounds background work started by the middleware.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = slog.New(middleware.WithRequestID(logger.Handler()))

	loader := deps.Loader
	if loader == nil {
		loader = &metadata.Loader{Fetcher: storage.NewRouter(cfg.StorageOptions())}
	}
	cat, err := loader.Open(ctx, cfg.Metadata)
	if err != nil {
		return nil, fmt.Errorf("load metadata %s: %w", cfg.Metadata, err)
	}
	logger.Info("metadata loaded", "source", cfg.Metadata, "tables", cat.Len())
	for _, issue := range cat.Lint() {
		logger.Warn("metadata issue", "issue", issue.String())
	}

	gen := service.NewGenerator(cat, logger)
	handler := api.NewRouter(ctx, api.NewHandler(gen, cfg.Mode, logger), api.RouterConfig{
		Logger: logger,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		CORSOrigins: cfg.CORSAllowedOrigins,
		UI:          ui.NewHandler(gen, cfg.Mode, cfg.IsProduction(), logger),
	})

	return &App{Generator: gen, Handler: handler}, nil
}
