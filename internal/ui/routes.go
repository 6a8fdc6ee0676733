package ui

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the form pages on r.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Home)
	r.Get("/ui/tables/{table}", h.TableForm)
	r.Post("/ui/tables/{table}", h.TableSubmit)
}
