// Package api provides the JSON HTTP API over the statement generator.
package api

import (
	"log/slog"

	"sqlgen/internal/domain"
	"sqlgen/internal/service"
)

// APIHandler serves the /v1 endpoints.
type APIHandler struct {
	generator *service.Generator
	mode      domain.Mode // used when a request omits "mode"
	logger    *slog.Logger
}

// NewHandler creates a new APIHandler.
func NewHandler(gen *service.Generator, mode domain.Mode, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &APIHandler{generator: gen, mode: mode, logger: logger}
}
