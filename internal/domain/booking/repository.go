package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Filter for listing bookings
type Filter struct {
	ClientID    *uuid.UUID
	TherapistID *uuid.UUID // therapist profile id
	Status      *Status
	Upcoming    *bool
}

// Pagination for listing
type Pagination struct {
	Page  int
	Limit int
}

// Repository defines booking data access interface
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, b *Booking) error
}

type repository struct {
	db *sqlx.DB
}

const bookingSelectColumns = `
	id, client_id, therapist_id, kind, status,
	starts_at, minutes, rate, note, fail_reason,
	confirmed_at, cancelled_at, cancelled_by,
	created_at, updated_at
`

// NewRepository creates new booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (
			id, client_id, therapist_id, kind, status,
			starts_at, minutes, rate, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.ClientID, b.TherapistID, b.Kind, b.Status,
		b.StartsAt, b.Minutes, b.Rate, b.Note,
	)
	if err != nil {
		return fmt.Errorf("booking repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingSelectColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Booking, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argIndex))
		args = append(args, *filter.ClientID)
		argIndex++
	}

	if filter.TherapistID != nil {
		conditions = append(conditions, fmt.Sprintf("therapist_id = $%d", argIndex))
		args = append(args, *filter.TherapistID)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Upcoming != nil && *filter.Upcoming {
		conditions = append(conditions, "starts_at >= NOW()")
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM bookings %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	offset := (pagination.Page - 1) * pagination.Limit
	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		%s
		ORDER BY starts_at ASC
		LIMIT $%d OFFSET $%d
	`, bookingSelectColumns, where, argIndex, argIndex+1)
	args = append(args, pagination.Limit, offset)

	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, b *Booking) error {
	query := `
		UPDATE bookings SET
			status = $2, fail_reason = $3,
			confirmed_at = $4, cancelled_at = $5, cancelled_by = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Status, b.FailReason,
		b.ConfirmedAt, b.CancelledAt, b.CancelledBy,
	)
	return err
}
