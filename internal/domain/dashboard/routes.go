package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calmora/calmora-api/internal/middleware"
)

// Routes returns dashboard routes
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/client", h.Client)
	r.With(middleware.RequireTherapist()).Get("/therapist", h.Therapist)

	return r
}
