package therapist

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

// Handler handles therapist HTTP requests
type Handler struct {
	service        *Service
	avatarMaxBytes int64
}

// NewHandler creates new therapist handler
func NewHandler(service *Service, avatarMaxBytes int64) *Handler {
	return &Handler{service: service, avatarMaxBytes: avatarMaxBytes}
}

// List handles GET /therapists
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, sortBy, pagination := parseListQuery(r)

	profiles, total, err := h.service.List(r.Context(), filter, sortBy, pagination)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list therapists")
		response.InternalError(w)
		return
	}

	items := make([]*ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, ProfileResponseFromEntity(p))
	}

	response.WithMeta(w, items, response.NewMeta(total, pagination.Page, pagination.Limit))
}

// Get handles GET /therapists/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid therapist ID")
		return
	}

	profile, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrProfileSuspended):
			response.NotFound(w, "Therapist not found")
		default:
			log.Error().Err(err).Str("profile_id", id.String()).Msg("Failed to get therapist")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ProfileResponseFromEntity(profile))
}

// Register handles POST /therapists
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req RegisterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := validator.Validate(&req); details != nil {
		response.ValidationError(w, details)
		return
	}

	profile, err := h.service.Register(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyRegistered):
			response.Conflict(w, "You already have a therapist profile")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to register therapist")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ProfileResponseFromEntity(profile))
}

// GetMine handles GET /therapists/me
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.service.GetByUserID(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			response.NotFound(w, "You don't have a therapist profile")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get own profile")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ProfileResponseFromEntity(profile))
}

// Update handles PUT /therapists/me
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if details := validator.Validate(&req); details != nil {
		response.ValidationError(w, details)
		return
	}

	profile, err := h.service.Update(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			response.NotFound(w, "You don't have a therapist profile")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update profile")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ProfileResponseFromEntity(profile))
}

// UploadAvatar handles POST /therapists/me/avatar (multipart form, field "avatar")
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.avatarMaxBytes)
	if err := r.ParseMultipartForm(h.avatarMaxBytes); err != nil {
		response.BadRequest(w, "Invalid upload or file too large")
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		response.BadRequest(w, "Missing avatar file")
		return
	}
	defer file.Close()

	profile, err := h.service.UploadAvatar(r.Context(), userID, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			response.NotFound(w, "You don't have a therapist profile")
		case errors.Is(err, ErrInvalidAvatar):
			response.BadRequest(w, "Unsupported or corrupt image")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to upload avatar")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ProfileResponseFromEntity(profile))
}

func parseListQuery(r *http.Request) (*Filter, SortBy, *Pagination) {
	q := r.URL.Query()
	filter := &Filter{}

	if v := q.Get("q"); v != "" {
		filter.Query = &v
	}
	if v := q.Get("specialty"); v != "" {
		filter.Specialty = &v
	}
	if v := q.Get("language"); v != "" {
		filter.Language = &v
	}
	if v := q.Get("city"); v != "" {
		filter.City = &v
	}
	if v := q.Get("rate_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			filter.RateMin = &f
		}
	}
	if v := q.Get("rate_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			filter.RateMax = &f
		}
	}
	if v := q.Get("video_only"); v == "true" {
		t := true
		filter.VideoOnly = &t
	}
	if v := q.Get("accepting"); v != "" {
		b := v == "true"
		filter.Accepting = &b
	}

	sortBy := SortByNewest
	switch q.Get("sort") {
	case "rating":
		sortBy = SortByRating
	case "rate_asc":
		sortBy = SortByRateAsc
	}

	pagination := &Pagination{Page: 1, Limit: 20}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		pagination.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= 100 {
		pagination.Limit = v
	}

	return filter, sortBy, pagination
}
