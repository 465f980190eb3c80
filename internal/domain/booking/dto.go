package booking

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequest for POST /bookings
type CreateRequest struct {
	TherapistID string `json:"therapist_id" validate:"required,uuid"`
	Kind        string `json:"kind" validate:"required,booking_kind"`
	StartsAt    string `json:"starts_at" validate:"required"` // RFC3339
	Note        string `json:"note" validate:"omitempty,max=2000"`
}

// CancelRequest for POST /bookings/{id}/cancel
type CancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// FailRequest for POST /bookings/{id}/fail
type FailRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// Response represents a booking in API responses
type Response struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	TherapistID uuid.UUID `json:"therapist_id"`

	Kind     string    `json:"kind"`
	Status   string    `json:"status"`
	StartsAt time.Time `json:"starts_at"`
	Minutes  int       `json:"minutes"`
	Rate     float64   `json:"rate"`

	Note        *string    `json:"note,omitempty"`
	FailReason  *string    `json:"fail_reason,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResponseFromEntity converts entity to response DTO
func ResponseFromEntity(b *Booking) *Response {
	resp := &Response{
		ID:          b.ID,
		ClientID:    b.ClientID,
		TherapistID: b.TherapistID,
		Kind:        string(b.Kind),
		Status:      string(b.Status),
		StartsAt:    b.StartsAt,
		Minutes:     b.Minutes,
		Rate:        b.Rate,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}

	if b.Note.Valid {
		resp.Note = &b.Note.String
	}
	if b.FailReason.Valid {
		resp.FailReason = &b.FailReason.String
	}
	if b.ConfirmedAt.Valid {
		resp.ConfirmedAt = &b.ConfirmedAt.Time
	}
	if b.CancelledAt.Valid {
		resp.CancelledAt = &b.CancelledAt.Time
	}

	return resp
}
