package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/calmora/calmora-api/internal/domain/therapist"
)

// Service handles dashboard queries
type Service struct {
	repo          Repository
	therapistRepo therapist.Repository
}

// NewService creates new dashboard service
func NewService(repo Repository, therapistRepo therapist.Repository) *Service {
	return &Service{repo: repo, therapistRepo: therapistRepo}
}

// ClientStats returns booking stats for the caller as a client.
func (s *Service) ClientStats(ctx context.Context, userID uuid.UUID) (*ClientStats, error) {
	return s.repo.ClientStats(ctx, userID)
}

// TherapistStats returns practice stats for the caller's therapist profile.
func (s *Service) TherapistStats(ctx context.Context, userID uuid.UUID) (*TherapistStats, error) {
	profile, err := s.therapistRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, therapist.ErrProfileNotFound
	}
	return s.repo.TherapistStats(ctx, profile.ID)
}
