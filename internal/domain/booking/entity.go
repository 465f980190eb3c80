package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents booking lifecycle state (matches booking_status enum)
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Kind represents the session format
type Kind string

const (
	KindVideo    Kind = "video"
	KindInPerson Kind = "in_person"
)

// Booking represents a session booking (matches bookings table)
type Booking struct {
	ID          uuid.UUID `db:"id"`
	ClientID    uuid.UUID `db:"client_id"`    // user id
	TherapistID uuid.UUID `db:"therapist_id"` // therapist profile id
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	Kind     Kind      `db:"kind"`
	Status   Status    `db:"status"`
	StartsAt time.Time `db:"starts_at"`
	Minutes  int       `db:"minutes"`
	Rate     float64   `db:"rate"` // snapshot of the therapist's rate at booking time

	Note        sql.NullString `db:"note"`
	FailReason  sql.NullString `db:"fail_reason"`
	ConfirmedAt sql.NullTime   `db:"confirmed_at"`
	CancelledAt sql.NullTime   `db:"cancelled_at"`
	CancelledBy uuid.NullUUID  `db:"cancelled_by"`
}

// IsPending returns true while the booking awaits the therapist's decision
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// CanTransition reports whether the booking may move to the target status.
// Only pending bookings move; confirmed/cancelled/failed are terminal.
func (b *Booking) CanTransition(target Status) bool {
	if !b.IsPending() {
		return false
	}
	switch target {
	case StatusConfirmed, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// InvolvesUser checks booking participation for access control.
// therapistUserID is the user id behind the therapist profile.
func (b *Booking) InvolvesUser(userID, therapistUserID uuid.UUID) bool {
	return b.ClientID == userID || therapistUserID == userID
}
