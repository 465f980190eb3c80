package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleClient    Role = "client"
	RoleTherapist Role = "therapist"
)

// User represents an account (matches users table)
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FullName     string    `db:"full_name"`
	Role         Role      `db:"role"`
	IsBanned     bool      `db:"is_banned"`

	// Login tracking
	LastLoginAt sql.NullTime   `db:"last_login_at"`
	LastLoginIP sql.NullString `db:"last_login_ip"`

	// Timestamps
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsClient returns true if user is a client
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// IsTherapist returns true if user is a therapist
func (u *User) IsTherapist() bool {
	return u.Role == RoleTherapist
}

// IsActive returns true if user is not banned
func (u *User) IsActive() bool {
	return !u.IsBanned
}

// CanBook returns true if user can create bookings
func (u *User) CanBook() bool {
	return u.IsClient() && u.IsActive()
}

// ValidRoles returns list of valid roles for registration
func ValidRoles() []Role {
	return []Role{RoleClient, RoleTherapist}
}

// IsValidRole checks if role is valid for registration
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if string(r) == role {
			return true
		}
	}
	return false
}
