package therapist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Filter represents directory search filters
type Filter struct {
	Query     *string
	Specialty *string
	Language  *string
	City      *string
	RateMin   *float64
	RateMax   *float64
	VideoOnly *bool
	Accepting *bool
}

// SortBy represents sort options
type SortBy string

const (
	SortByNewest  SortBy = "newest"
	SortByRating  SortBy = "rating"
	SortByRateAsc SortBy = "rate_asc"
)

// Pagination for listing
type Pagination struct {
	Page  int
	Limit int
}

// Repository defines therapist data access interface
type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL, thumbURL string) error
	List(ctx context.Context, filter *Filter, sortBy SortBy, pagination *Pagination) ([]*Profile, int, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

const profileSelectColumns = `
	id, user_id, display_name, title, bio, specialties, languages,
	city, offers_video, offers_in_person, is_accepting,
	session_rate, session_minutes, years_experience,
	avatar_url, avatar_thumb_url,
	status, rating_score, reviews_count, view_count,
	created_at, updated_at
`

// NewRepository creates new therapist repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO therapist_profiles (
			id, user_id, display_name, title, bio, specialties, languages,
			city, offers_video, offers_in_person, is_accepting,
			session_rate, session_minutes, years_experience,
			status, rating_score, reviews_count, view_count
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.UserID, profile.DisplayName, profile.Title, profile.Bio,
		profile.Specialties, profile.Languages,
		profile.City, profile.OffersVideo, profile.OffersInPerson, profile.IsAccepting,
		profile.SessionRate, profile.SessionMinutes, profile.YearsExperience,
		profile.Status, profile.RatingScore, profile.ReviewsCount, profile.ViewCount,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: %w", ErrAlreadyRegistered, err)
		}
		return fmt.Errorf("therapist repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileSelectColumns + ` FROM therapist_profiles WHERE id = $1`

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileSelectColumns + ` FROM therapist_profiles WHERE user_id = $1`

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

func (r *repository) Update(ctx context.Context, profile *Profile) error {
	query := `
		UPDATE therapist_profiles SET
			display_name = $2, title = $3, bio = $4,
			specialties = $5, languages = $6,
			city = $7, offers_video = $8, offers_in_person = $9, is_accepting = $10,
			session_rate = $11, session_minutes = $12, years_experience = $13,
			status = $14,
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.DisplayName, profile.Title, profile.Bio,
		profile.Specialties, profile.Languages,
		profile.City, profile.OffersVideo, profile.OffersInPerson, profile.IsAccepting,
		profile.SessionRate, profile.SessionMinutes, profile.YearsExperience,
		profile.Status,
	)
	return err
}

func (r *repository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL, thumbURL string) error {
	query := `UPDATE therapist_profiles SET avatar_url = $2, avatar_thumb_url = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, avatarURL, thumbURL)
	return err
}

func (r *repository) List(ctx context.Context, filter *Filter, sortBy SortBy, pagination *Pagination) ([]*Profile, int, error) {
	conditions := []string{"t.status = 'active'"}
	args := []interface{}{}
	argIndex := 1

	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(t.display_name ILIKE $%d OR t.title ILIKE $%d OR t.bio ILIKE $%d)",
			argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+*filter.Query+"%")
		argIndex++
	}

	if filter.Specialty != nil && *filter.Specialty != "" {
		conditions = append(conditions, fmt.Sprintf("t.specialties @> $%d", argIndex))
		args = append(args, pq.StringArray{*filter.Specialty})
		argIndex++
	}

	if filter.Language != nil && *filter.Language != "" {
		conditions = append(conditions, fmt.Sprintf("t.languages @> $%d", argIndex))
		args = append(args, pq.StringArray{*filter.Language})
		argIndex++
	}

	if filter.City != nil && *filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("t.city ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.City+"%")
		argIndex++
	}

	if filter.RateMin != nil {
		conditions = append(conditions, fmt.Sprintf("t.session_rate >= $%d", argIndex))
		args = append(args, *filter.RateMin)
		argIndex++
	}

	if filter.RateMax != nil {
		conditions = append(conditions, fmt.Sprintf("t.session_rate <= $%d", argIndex))
		args = append(args, *filter.RateMax)
		argIndex++
	}

	if filter.VideoOnly != nil && *filter.VideoOnly {
		conditions = append(conditions, "t.offers_video = true")
	}

	if filter.Accepting != nil {
		conditions = append(conditions, fmt.Sprintf("t.is_accepting = $%d", argIndex))
		args = append(args, *filter.Accepting)
		argIndex++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM therapist_profiles t %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	// Order by
	var orderBy string
	switch sortBy {
	case SortByRating:
		orderBy = "ORDER BY t.rating_score DESC, t.reviews_count DESC"
	case SortByRateAsc:
		orderBy = "ORDER BY t.session_rate ASC NULLS LAST"
	default:
		orderBy = "ORDER BY t.created_at DESC"
	}

	offset := (pagination.Page - 1) * pagination.Limit
	query := fmt.Sprintf(`
		SELECT %s FROM therapist_profiles t
		%s %s
		LIMIT $%d OFFSET $%d
	`, profileSelectColumns, where, orderBy, argIndex, argIndex+1)
	args = append(args, pagination.Limit, offset)

	var profiles []*Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *repository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE therapist_profiles SET view_count = view_count + 1 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
