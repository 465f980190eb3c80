package therapist

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest for POST /therapists
type RegisterRequest struct {
	DisplayName    string   `json:"display_name" validate:"required,min=2,max=200"`
	Title          string   `json:"title" validate:"required,min=2,max=200"`
	Bio            string   `json:"bio" validate:"required,min=50,max=5000"`
	Specialties    []string `json:"specialties" validate:"required,min=1,max=10,dive,specialty"`
	Languages      []string `json:"languages" validate:"omitempty,max=10,dive,min=2,max=40"`
	City           string   `json:"city" validate:"omitempty,min=2,max=100"`
	OffersVideo    bool     `json:"offers_video"`
	OffersInPerson bool     `json:"offers_in_person"`
	SessionRate    float64  `json:"session_rate" validate:"gte=0,lte=10000"`
	SessionMinutes int      `json:"session_minutes" validate:"omitempty,gte=20,lte=180"`
	YearsExp       int      `json:"years_experience" validate:"gte=0,lte=80"`
}

// UpdateRequest for PUT /therapists/me
type UpdateRequest struct {
	DisplayName    *string  `json:"display_name" validate:"omitempty,min=2,max=200"`
	Title          *string  `json:"title" validate:"omitempty,min=2,max=200"`
	Bio            *string  `json:"bio" validate:"omitempty,min=50,max=5000"`
	Specialties    []string `json:"specialties" validate:"omitempty,min=1,max=10,dive,specialty"`
	Languages      []string `json:"languages" validate:"omitempty,max=10,dive,min=2,max=40"`
	City           *string  `json:"city" validate:"omitempty,min=2,max=100"`
	OffersVideo    *bool    `json:"offers_video"`
	OffersInPerson *bool    `json:"offers_in_person"`
	IsAccepting    *bool    `json:"is_accepting"`
	SessionRate    *float64 `json:"session_rate" validate:"omitempty,gte=0,lte=10000"`
	SessionMinutes *int     `json:"session_minutes" validate:"omitempty,gte=20,lte=180"`
	YearsExp       *int     `json:"years_experience" validate:"omitempty,gte=0,lte=80"`
}

// ProfileResponse represents therapist in API response
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Title       string    `json:"title"`
	Bio         string    `json:"bio"`
	Specialties []string  `json:"specialties"`
	Languages   []string  `json:"languages"`

	City           *string `json:"city,omitempty"`
	OffersVideo    bool    `json:"offers_video"`
	OffersInPerson bool    `json:"offers_in_person"`
	IsAccepting    bool    `json:"is_accepting"`

	SessionRate    float64 `json:"session_rate"`
	SessionMinutes int     `json:"session_minutes"`
	RateLabel      string  `json:"rate_label"`

	YearsExperience int `json:"years_experience"`

	AvatarURL      *string `json:"avatar_url,omitempty"`
	AvatarThumbURL *string `json:"avatar_thumb_url,omitempty"`

	Status       string  `json:"status"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
	ViewCount    int     `json:"view_count"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ProfileResponseFromEntity converts entity to response DTO
func ProfileResponseFromEntity(p *Profile) *ProfileResponse {
	resp := &ProfileResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		DisplayName:     p.DisplayName,
		Title:           p.Title,
		Bio:             p.Bio,
		Specialties:     []string(p.Specialties),
		Languages:       []string(p.Languages),
		OffersVideo:     p.OffersVideo,
		OffersInPerson:  p.OffersInPerson,
		IsAccepting:     p.IsAccepting,
		SessionRate:     p.SessionRate,
		SessionMinutes:  p.SessionMinutes,
		RateLabel:       p.RateLabel(),
		YearsExperience: p.YearsExperience,
		Status:          string(p.Status),
		Rating:          p.RatingScore,
		ReviewsCount:    p.ReviewsCount,
		ViewCount:       p.ViewCount,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}

	if p.City.Valid {
		resp.City = &p.City.String
	}
	if p.AvatarURL.Valid {
		resp.AvatarURL = &p.AvatarURL.String
	}
	if p.AvatarThumbURL.Valid {
		resp.AvatarThumbURL = &p.AvatarThumbURL.String
	}

	return resp
}
