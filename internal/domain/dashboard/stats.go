package dashboard

import "time"

// ClientStats backs the client dashboard page
type ClientStats struct {
	PendingBookings   int        `json:"pending_bookings" db:"pending_bookings"`
	UpcomingSessions  int        `json:"upcoming_sessions" db:"upcoming_sessions"`
	CompletedSessions int        `json:"completed_sessions" db:"completed_sessions"`
	CancelledBookings int        `json:"cancelled_bookings" db:"cancelled_bookings"`
	TherapistsSeen    int        `json:"therapists_seen" db:"therapists_seen"`
	NextSessionAt     *time.Time `json:"next_session_at,omitempty" db:"next_session_at"`
}

// TherapistStats backs the therapist dashboard page
type TherapistStats struct {
	PendingRequests   int        `json:"pending_requests" db:"pending_requests"`
	UpcomingSessions  int        `json:"upcoming_sessions" db:"upcoming_sessions"`
	CompletedSessions int        `json:"completed_sessions" db:"completed_sessions"`
	NextSessionAt     *time.Time `json:"next_session_at,omitempty" db:"next_session_at"`

	BookedMinutesThisMonth int `json:"booked_minutes_this_month" db:"booked_minutes_this_month"`

	ProfileViews int     `json:"profile_views" db:"profile_views"`
	ReviewsCount int     `json:"reviews_count" db:"reviews_count"`
	RatingScore  float64 `json:"rating_score" db:"rating_score"`
	EarnedToDate float64 `json:"earned_to_date" db:"earned_to_date"`
}
