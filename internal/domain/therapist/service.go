package therapist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/calmora/calmora-api/internal/domain/user"
	"github.com/calmora/calmora-api/internal/pkg/imaging"
	"github.com/calmora/calmora-api/internal/pkg/storage"
)

// Service handles therapist profile business logic
type Service struct {
	repo      Repository
	userRepo  user.Repository
	storage   storage.Storage
	processor *imaging.Processor
}

// NewService creates new therapist service
func NewService(repo Repository, userRepo user.Repository, store storage.Storage, processor *imaging.Processor) *Service {
	return &Service{
		repo:      repo,
		userRepo:  userRepo,
		storage:   store,
		processor: processor,
	}
}

// Register creates a therapist profile for the user and upgrades their role.
func (s *Service) Register(ctx context.Context, userID uuid.UUID, req *RegisterRequest) (*Profile, error) {
	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check existing profile: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	profile := &Profile{
		ID:              uuid.New(),
		UserID:          userID,
		DisplayName:     strings.TrimSpace(req.DisplayName),
		Title:           strings.TrimSpace(req.Title),
		Bio:             strings.TrimSpace(req.Bio),
		Specialties:     pq.StringArray(req.Specialties),
		Languages:       pq.StringArray(req.Languages),
		OffersVideo:     req.OffersVideo,
		OffersInPerson:  req.OffersInPerson,
		IsAccepting:     true,
		SessionRate:     req.SessionRate,
		SessionMinutes:  req.SessionMinutes,
		YearsExperience: req.YearsExp,
		Status:          StatusActive,
	}
	if req.City != "" {
		profile.City.String = strings.TrimSpace(req.City)
		profile.City.Valid = true
	}
	if profile.SessionMinutes == 0 {
		profile.SessionMinutes = 50
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRole(ctx, userID, user.RoleTherapist); err != nil {
		return nil, fmt.Errorf("upgrade role: %w", err)
	}

	return profile, nil
}

// GetByID returns a profile and bumps its view counter.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if profile.Status == StatusSuspended {
		return nil, ErrProfileSuspended
	}

	go func() {
		if err := s.repo.IncrementViewCount(context.Background(), id); err != nil {
			log.Warn().Err(err).Str("profile_id", id.String()).Msg("Failed to increment view count")
		}
	}()

	return profile, nil
}

// GetByUserID returns the caller's own profile.
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// Update applies partial changes to the caller's own profile.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateRequest) (*Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	if req.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Title != nil {
		profile.Title = strings.TrimSpace(*req.Title)
	}
	if req.Bio != nil {
		profile.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Specialties != nil {
		profile.Specialties = pq.StringArray(req.Specialties)
	}
	if req.Languages != nil {
		profile.Languages = pq.StringArray(req.Languages)
	}
	if req.City != nil {
		profile.City.String = strings.TrimSpace(*req.City)
		profile.City.Valid = *req.City != ""
	}
	if req.OffersVideo != nil {
		profile.OffersVideo = *req.OffersVideo
	}
	if req.OffersInPerson != nil {
		profile.OffersInPerson = *req.OffersInPerson
	}
	if req.IsAccepting != nil {
		profile.IsAccepting = *req.IsAccepting
	}
	if req.SessionRate != nil {
		profile.SessionRate = *req.SessionRate
	}
	if req.SessionMinutes != nil {
		profile.SessionMinutes = *req.SessionMinutes
	}
	if req.YearsExp != nil {
		profile.YearsExperience = *req.YearsExp
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// List returns the public therapist directory.
func (s *Service) List(ctx context.Context, filter *Filter, sortBy SortBy, pagination *Pagination) ([]*Profile, int, error) {
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.Limit < 1 || pagination.Limit > 100 {
		pagination.Limit = 20
	}
	return s.repo.List(ctx, filter, sortBy, pagination)
}

// UploadAvatar processes and stores a new avatar for the caller's profile.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (*Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	processed, err := s.processor.Process(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAvatar, err)
	}

	ext := imaging.Ext(processed.ContentType)
	avatarKey := fmt.Sprintf("avatars/%s/avatar%s", profile.ID, ext)
	thumbKey := fmt.Sprintf("avatars/%s/thumb%s", profile.ID, ext)

	if err := s.storage.Save(ctx, avatarKey, bytes.NewReader(processed.Avatar), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}
	if err := s.storage.Save(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store thumbnail: %w", err)
	}

	avatarURL := s.storage.GetURL(avatarKey)
	thumbURL := s.storage.GetURL(thumbKey)

	if err := s.repo.UpdateAvatar(ctx, profile.ID, avatarURL, thumbURL); err != nil {
		return nil, err
	}

	profile.AvatarURL.String = avatarURL
	profile.AvatarURL.Valid = true
	profile.AvatarThumbURL.String = thumbURL
	profile.AvatarThumbURL.Valid = true

	return profile, nil
}
