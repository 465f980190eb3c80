package dashboard

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines dashboard aggregation queries
type Repository interface {
	ClientStats(ctx context.Context, clientID uuid.UUID) (*ClientStats, error)
	TherapistStats(ctx context.Context, profileID uuid.UUID) (*TherapistStats, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new dashboard repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ClientStats(ctx context.Context, clientID uuid.UUID) (*ClientStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_bookings,
			COUNT(*) FILTER (WHERE status = 'confirmed' AND starts_at >= NOW()) AS upcoming_sessions,
			COUNT(*) FILTER (WHERE status = 'confirmed' AND starts_at < NOW()) AS completed_sessions,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_bookings,
			COUNT(DISTINCT therapist_id) FILTER (WHERE status = 'confirmed') AS therapists_seen,
			MIN(starts_at) FILTER (WHERE status = 'confirmed' AND starts_at >= NOW()) AS next_session_at
		FROM bookings
		WHERE client_id = $1
	`

	var stats ClientStats
	if err := r.db.GetContext(ctx, &stats, query, clientID); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *repository) TherapistStats(ctx context.Context, profileID uuid.UUID) (*TherapistStats, error) {
	query := `
		SELECT
			COUNT(b.*) FILTER (WHERE b.status = 'pending') AS pending_requests,
			COUNT(b.*) FILTER (WHERE b.status = 'confirmed' AND b.starts_at >= NOW()) AS upcoming_sessions,
			COUNT(b.*) FILTER (WHERE b.status = 'confirmed' AND b.starts_at < NOW()) AS completed_sessions,
			MIN(b.starts_at) FILTER (WHERE b.status = 'confirmed' AND b.starts_at >= NOW()) AS next_session_at,
			COALESCE(SUM(b.minutes) FILTER (WHERE b.status = 'confirmed' AND date_trunc('month', b.starts_at) = date_trunc('month', NOW())), 0) AS booked_minutes_this_month,
			COALESCE(SUM(b.rate) FILTER (WHERE b.status = 'confirmed' AND b.starts_at < NOW()), 0) AS earned_to_date,
			t.view_count AS profile_views,
			t.reviews_count AS reviews_count,
			t.rating_score AS rating_score
		FROM therapist_profiles t
		LEFT JOIN bookings b ON b.therapist_id = t.id
		WHERE t.id = $1
		GROUP BY t.id
	`

	var stats TherapistStats
	if err := r.db.GetContext(ctx, &stats, query, profileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}
