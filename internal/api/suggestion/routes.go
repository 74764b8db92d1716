package suggestion

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers suggestion routes. middlewares apply to /api only.
func RegisterRoutes(r chi.Router, h *Handler, middlewares ...func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(middlewares...)
		r.Post("/generate", h.Generate)
	})
}
