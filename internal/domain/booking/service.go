package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/calmora/calmora-api/internal/domain/therapist"
)

// EventPublisher delivers booking events to connected users.
// Implemented by the notify hub; nil disables notifications.
type EventPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, event string, payload interface{})
}

// Service handles booking business logic
type Service struct {
	repo          Repository
	therapistRepo therapist.Repository
	events        EventPublisher
}

// NewService creates new booking service
func NewService(repo Repository, therapistRepo therapist.Repository, events EventPublisher) *Service {
	return &Service{
		repo:          repo,
		therapistRepo: therapistRepo,
		events:        events,
	}
}

// Create places a new pending booking with the chosen therapist.
func (s *Service) Create(ctx context.Context, clientID uuid.UUID, req *CreateRequest) (*Booking, error) {
	therapistID, err := uuid.Parse(req.TherapistID)
	if err != nil {
		return nil, ErrTherapistNotFound
	}

	profile, err := s.therapistRepo.GetByID(ctx, therapistID)
	if err != nil {
		return nil, fmt.Errorf("load therapist: %w", err)
	}
	if profile == nil {
		return nil, ErrTherapistNotFound
	}
	if !profile.IsBookable() {
		return nil, ErrTherapistUnavailable
	}

	kind := Kind(req.Kind)
	if kind == KindVideo && !profile.OffersVideo {
		return nil, ErrKindNotOffered
	}
	if kind == KindInPerson && !profile.OffersInPerson {
		return nil, ErrKindNotOffered
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad starts_at", ErrStartsInPast)
	}
	if startsAt.Before(time.Now()) {
		return nil, ErrStartsInPast
	}

	b := &Booking{
		ID:          uuid.New(),
		ClientID:    clientID,
		TherapistID: profile.ID,
		Kind:        kind,
		Status:      StatusPending,
		StartsAt:    startsAt,
		Minutes:     profile.SessionMinutes,
		Rate:        profile.SessionRate,
	}
	if req.Note != "" {
		b.Note.String = req.Note
		b.Note.Valid = true
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, profile.UserID, "booking.created", b)

	return b, nil
}

// GetByID returns a booking, visible only to its participants.
func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}

	therapistUserID, err := s.therapistUserID(ctx, b.TherapistID)
	if err != nil {
		return nil, err
	}
	if !b.InvolvesUser(userID, therapistUserID) {
		return nil, ErrNotParticipant
	}

	return b, nil
}

// ListMine returns the caller's bookings. Therapists see bookings on their
// profile, clients see bookings they placed.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, status *Status, upcoming *bool, pagination *Pagination) ([]*Booking, int, error) {
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.Limit < 1 || pagination.Limit > 100 {
		pagination.Limit = 20
	}

	filter := &Filter{Status: status, Upcoming: upcoming}

	profile, err := s.therapistRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if profile != nil {
		filter.TherapistID = &profile.ID
	} else {
		filter.ClientID = &userID
	}

	return s.repo.List(ctx, filter, pagination)
}

// Confirm moves a pending booking to confirmed. Therapist only.
func (s *Service) Confirm(ctx context.Context, userID, id uuid.UUID) (*Booking, error) {
	b, therapistUserID, err := s.loadForTransition(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if therapistUserID != userID {
		return nil, ErrNotTherapist
	}
	if !b.CanTransition(StatusConfirmed) {
		return nil, ErrInvalidTransition
	}

	b.Status = StatusConfirmed
	b.ConfirmedAt.Time = time.Now()
	b.ConfirmedAt.Valid = true

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, b.ClientID, "booking.confirmed", b)

	return b, nil
}

// Cancel moves a pending booking to cancelled. Either participant may cancel.
func (s *Service) Cancel(ctx context.Context, userID, id uuid.UUID, req *CancelRequest) (*Booking, error) {
	b, therapistUserID, err := s.loadForTransition(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !b.CanTransition(StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	b.Status = StatusCancelled
	b.CancelledAt.Time = time.Now()
	b.CancelledAt.Valid = true
	b.CancelledBy.UUID = userID
	b.CancelledBy.Valid = true
	if req.Reason != "" {
		b.FailReason.String = req.Reason
		b.FailReason.Valid = true
	}

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}

	// Notify the other side
	if userID == b.ClientID {
		s.publish(ctx, therapistUserID, "booking.cancelled", b)
	} else {
		s.publish(ctx, b.ClientID, "booking.cancelled", b)
	}

	return b, nil
}

// Fail moves a pending booking to failed. Therapist only.
func (s *Service) Fail(ctx context.Context, userID, id uuid.UUID, req *FailRequest) (*Booking, error) {
	b, therapistUserID, err := s.loadForTransition(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if therapistUserID != userID {
		return nil, ErrNotTherapist
	}
	if !b.CanTransition(StatusFailed) {
		return nil, ErrInvalidTransition
	}

	b.Status = StatusFailed
	if req.Reason != "" {
		b.FailReason.String = req.Reason
		b.FailReason.Valid = true
	}

	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, b.ClientID, "booking.failed", b)

	return b, nil
}

func (s *Service) loadForTransition(ctx context.Context, userID, id uuid.UUID) (*Booking, uuid.UUID, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if b == nil {
		return nil, uuid.Nil, ErrNotFound
	}

	therapistUserID, err := s.therapistUserID(ctx, b.TherapistID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if !b.InvolvesUser(userID, therapistUserID) {
		return nil, uuid.Nil, ErrNotParticipant
	}

	return b, therapistUserID, nil
}

func (s *Service) therapistUserID(ctx context.Context, profileID uuid.UUID) (uuid.UUID, error) {
	profile, err := s.therapistRepo.GetByID(ctx, profileID)
	if err != nil {
		return uuid.Nil, err
	}
	if profile == nil {
		return uuid.Nil, nil
	}
	return profile.UserID, nil
}

func (s *Service) publish(ctx context.Context, userID uuid.UUID, event string, b *Booking) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, userID, event, ResponseFromEntity(b))
	log.Debug().Str("event", event).Str("booking_id", b.ID.String()).Msg("Booking event published")
}
