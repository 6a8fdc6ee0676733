// Package ui serves the HTML statement form: one input per column, with
// mandatory columns marked, rendering the generated statement and verdict.
package ui

import (
	"log/slog"
	"net/http"

	gomponents "maragu.dev/gomponents"

	"sqlgen/internal/domain"
	"sqlgen/internal/service"
)

// Handler renders the form pages.
type Handler struct {
	Generator  *service.Generator
	Mode       domain.Mode // preselected mode on a fresh form
	Production bool
	Logger     *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(gen *service.Generator, mode domain.Mode, production bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		Generator:  gen,
		Mode:       mode,
		Production: production,
		Logger:     logger,
	}
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}
