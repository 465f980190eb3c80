package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/calmora/calmora-api/internal/middleware"
	"github.com/calmora/calmora-api/internal/pkg/response"
	"github.com/calmora/calmora-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates new booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := validator.Validate(&req); details != nil {
		response.ValidationError(w, details)
		return
	}

	b, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrTherapistNotFound):
			response.NotFound(w, "Therapist not found")
		case errors.Is(err, ErrTherapistUnavailable):
			response.Conflict(w, "Therapist is not accepting bookings")
		case errors.Is(err, ErrKindNotOffered):
			response.BadRequest(w, "Therapist does not offer this session format")
		case errors.Is(err, ErrStartsInPast):
			response.BadRequest(w, "Start time must be in the future")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create booking")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ResponseFromEntity(b))
}

// Get handles GET /bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.service.GetByID(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err, userID, "Failed to get booking")
		return
	}

	response.OK(w, ResponseFromEntity(b))
}

// ListMine handles GET /bookings
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	q := r.URL.Query()

	var status *Status
	switch Status(q.Get("status")) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusFailed:
		s := Status(q.Get("status"))
		status = &s
	}

	var upcoming *bool
	if q.Get("upcoming") == "true" {
		t := true
		upcoming = &t
	}

	pagination := &Pagination{Page: 1, Limit: 20}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		pagination.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= 100 {
		pagination.Limit = v
	}

	bookings, total, err := h.service.ListMine(r.Context(), userID, status, upcoming, pagination)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list bookings")
		response.InternalError(w)
		return
	}

	items := make([]*Response, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, ResponseFromEntity(b))
	}

	response.WithMeta(w, items, response.NewMeta(total, pagination.Page, pagination.Limit))
}

// Confirm handles POST /bookings/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.service.Confirm(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err, userID, "Failed to confirm booking")
		return
	}

	response.OK(w, ResponseFromEntity(b))
}

// Cancel handles POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req CancelRequest
	if r.ContentLength > 0 {
		if err := response.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}
	if details := validator.Validate(&req); details != nil {
		response.ValidationError(w, details)
		return
	}

	b, err := h.service.Cancel(r.Context(), userID, id, &req)
	if err != nil {
		h.writeError(w, err, userID, "Failed to cancel booking")
		return
	}

	response.OK(w, ResponseFromEntity(b))
}

// Fail handles POST /bookings/{id}/fail
func (h *Handler) Fail(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req FailRequest
	if r.ContentLength > 0 {
		if err := response.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}
	if details := validator.Validate(&req); details != nil {
		response.ValidationError(w, details)
		return
	}

	b, err := h.service.Fail(r.Context(), userID, id, &req)
	if err != nil {
		h.writeError(w, err, userID, "Failed to mark booking failed")
		return
	}

	response.OK(w, ResponseFromEntity(b))
}

func (h *Handler) writeError(w http.ResponseWriter, err error, userID uuid.UUID, logMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrNotParticipant):
		response.Forbidden(w, "You are not a participant of this booking")
	case errors.Is(err, ErrNotTherapist):
		response.Forbidden(w, "Only the therapist can perform this action")
	case errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, "Booking is no longer pending")
	default:
		log.Error().Err(err).Str("user_id", userID.String()).Msg(logMsg)
		response.InternalError(w)
	}
}
