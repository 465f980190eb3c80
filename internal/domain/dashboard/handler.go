package dashboard

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/calmora/calmora-api/internal/domain/therapist"
	"github.com/calmora/calmora-api/internal/middleware"
	"github.com/calmora/calmora-api/internal/pkg/response"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates new dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Client handles GET /dashboard/client
func (h *Handler) Client(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.service.ClientStats(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load client dashboard")
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}

// Therapist handles GET /dashboard/therapist
func (h *Handler) Therapist(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.service.TherapistStats(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, therapist.ErrProfileNotFound):
			response.NotFound(w, "You don't have a therapist profile")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load therapist dashboard")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, stats)
}
