package therapist

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns therapist routes
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public directory
	r.Get("/", h.List)

	// Protected (registration and own-profile management)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Register)
		r.Get("/me", h.GetMine)
		r.Put("/me", h.Update)
		r.Post("/me/avatar", h.UploadAvatar)
	})

	r.Get("/{id}", h.Get)

	return r
}
