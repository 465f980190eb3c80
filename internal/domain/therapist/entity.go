package therapist

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Status represents therapist profile status (matches therapist_status enum)
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusSuspended Status = "suspended"
)

// Profile represents a therapist profile (matches therapist_profiles table)
type Profile struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Public card
	DisplayName string         `db:"display_name"`
	Title       string         `db:"title"` // e.g. "Licensed Clinical Psychologist"
	Bio         string         `db:"bio"`
	Specialties pq.StringArray `db:"specialties"`
	Languages   pq.StringArray `db:"languages"`

	// Availability
	City           sql.NullString `db:"city"`
	OffersVideo    bool           `db:"offers_video"`
	OffersInPerson bool           `db:"offers_in_person"`
	IsAccepting    bool           `db:"is_accepting"`

	// Pricing
	SessionRate    float64 `db:"session_rate"` // per 50-minute session
	SessionMinutes int     `db:"session_minutes"`

	// Credentials
	YearsExperience int `db:"years_experience"`

	// Avatar (populated by avatar upload)
	AvatarURL      sql.NullString `db:"avatar_url"`
	AvatarThumbURL sql.NullString `db:"avatar_thumb_url"`

	// Status and stats
	Status       Status  `db:"status"`
	RatingScore  float64 `db:"rating_score"`
	ReviewsCount int     `db:"reviews_count"`
	ViewCount    int     `db:"view_count"`
}

// IsActive returns true if the profile is visible in the directory
func (p *Profile) IsActive() bool {
	return p.Status == StatusActive
}

// IsBookable returns true if new bookings are allowed
func (p *Profile) IsBookable() bool {
	return p.IsActive() && p.IsAccepting
}

// CanBeEditedBy checks if user owns this profile
func (p *Profile) CanBeEditedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// RateLabel returns a formatted session rate
func (p *Profile) RateLabel() string {
	if p.SessionRate <= 0 {
		return "Rate on request"
	}
	return fmt.Sprintf("$%.0f / %d min", p.SessionRate, p.SessionMinutes)
}
