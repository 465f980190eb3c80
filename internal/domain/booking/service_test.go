package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/calmora/calmora-api/internal/domain/therapist"
)

type fakeRepo struct {
	byID    map[uuid.UUID]*Booking
	created []*Booking
	updated []*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]*Booking)}
}

func (f *fakeRepo) Create(_ context.Context, b *Booking) error {
	f.created = append(f.created, b)
	f.byID[b.ID] = b
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	return f.byID[id], nil
}

func (f *fakeRepo) List(_ context.Context, _ *Filter, _ *Pagination) ([]*Booking, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, b *Booking) error {
	f.updated = append(f.updated, b)
	return nil
}

type fakeTherapistRepo struct {
	profiles map[uuid.UUID]*therapist.Profile
}

func newFakeTherapistRepo(profiles ...*therapist.Profile) *fakeTherapistRepo {
	f := &fakeTherapistRepo{profiles: make(map[uuid.UUID]*therapist.Profile)}
	for _, p := range profiles {
		f.profiles[p.ID] = p
	}
	return f
}

func (f *fakeTherapistRepo) Create(_ context.Context, _ *therapist.Profile) error { return nil }
func (f *fakeTherapistRepo) GetByID(_ context.Context, id uuid.UUID) (*therapist.Profile, error) {
	return f.profiles[id], nil
}
func (f *fakeTherapistRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*therapist.Profile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakeTherapistRepo) Update(_ context.Context, _ *therapist.Profile) error { return nil }
func (f *fakeTherapistRepo) UpdateAvatar(_ context.Context, _ uuid.UUID, _, _ string) error {
	return nil
}
func (f *fakeTherapistRepo) List(_ context.Context, _ *therapist.Filter, _ therapist.SortBy, _ *therapist.Pagination) ([]*therapist.Profile, int, error) {
	return nil, 0, nil
}
func (f *fakeTherapistRepo) IncrementViewCount(_ context.Context, _ uuid.UUID) error { return nil }

type fakePublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	userID uuid.UUID
	event  string
}

func (f *fakePublisher) Publish(_ context.Context, userID uuid.UUID, event string, _ interface{}) {
	f.events = append(f.events, publishedEvent{userID: userID, event: event})
}

func bookableProfile() *therapist.Profile {
	return &therapist.Profile{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		DisplayName:    "Dr. Jane Smith",
		OffersVideo:    true,
		IsAccepting:    true,
		SessionRate:    140,
		SessionMinutes: 50,
		Status:         therapist.StatusActive,
	}
}

func validCreateRequest(therapistID uuid.UUID) *CreateRequest {
	return &CreateRequest{
		TherapistID: therapistID.String(),
		Kind:        "video",
		StartsAt:    time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	}
}

func TestCreateBooking(t *testing.T) {
	profile := bookableProfile()
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewService(repo, newFakeTherapistRepo(profile), pub)

	clientID := uuid.New()
	b, err := svc.Create(context.Background(), clientID, validCreateRequest(profile.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if b.Status != StatusPending {
		t.Errorf("new booking status = %s, want pending", b.Status)
	}
	if b.Rate != profile.SessionRate {
		t.Errorf("booking rate = %v, want rate snapshot %v", b.Rate, profile.SessionRate)
	}
	if b.Minutes != profile.SessionMinutes {
		t.Errorf("booking minutes = %d, want %d", b.Minutes, profile.SessionMinutes)
	}
	if len(pub.events) != 1 || pub.events[0].event != "booking.created" || pub.events[0].userID != profile.UserID {
		t.Errorf("expected booking.created event to therapist, got %+v", pub.events)
	}
}

func TestCreateBookingRejectsUnofferedKind(t *testing.T) {
	profile := bookableProfile()
	profile.OffersInPerson = false
	svc := NewService(newFakeRepo(), newFakeTherapistRepo(profile), nil)

	req := validCreateRequest(profile.ID)
	req.Kind = "in_person"

	_, err := svc.Create(context.Background(), uuid.New(), req)
	if !errors.Is(err, ErrKindNotOffered) {
		t.Errorf("Create error = %v, want ErrKindNotOffered", err)
	}
}

func TestCreateBookingRejectsPastStart(t *testing.T) {
	profile := bookableProfile()
	svc := NewService(newFakeRepo(), newFakeTherapistRepo(profile), nil)

	req := validCreateRequest(profile.ID)
	req.StartsAt = time.Now().Add(-time.Hour).Format(time.RFC3339)

	_, err := svc.Create(context.Background(), uuid.New(), req)
	if !errors.Is(err, ErrStartsInPast) {
		t.Errorf("Create error = %v, want ErrStartsInPast", err)
	}
}

func TestCreateBookingRejectsPausedTherapist(t *testing.T) {
	profile := bookableProfile()
	profile.IsAccepting = false
	svc := NewService(newFakeRepo(), newFakeTherapistRepo(profile), nil)

	_, err := svc.Create(context.Background(), uuid.New(), validCreateRequest(profile.ID))
	if !errors.Is(err, ErrTherapistUnavailable) {
		t.Errorf("Create error = %v, want ErrTherapistUnavailable", err)
	}
}

func TestConfirmIsTherapistOnly(t *testing.T) {
	profile := bookableProfile()
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewService(repo, newFakeTherapistRepo(profile), pub)

	clientID := uuid.New()
	b, err := svc.Create(context.Background(), clientID, validCreateRequest(profile.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Confirm(context.Background(), clientID, b.ID); !errors.Is(err, ErrNotTherapist) {
		t.Errorf("client Confirm error = %v, want ErrNotTherapist", err)
	}

	confirmed, err := svc.Confirm(context.Background(), profile.UserID, b.ID)
	if err != nil {
		t.Fatalf("therapist Confirm returned error: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Errorf("status = %s, want confirmed", confirmed.Status)
	}
	if !confirmed.ConfirmedAt.Valid {
		t.Error("confirmed_at not set")
	}

	last := pub.events[len(pub.events)-1]
	if last.event != "booking.confirmed" || last.userID != clientID {
		t.Errorf("expected booking.confirmed event to client, got %+v", last)
	}
}

func TestTransitionsOnlyOutOfPending(t *testing.T) {
	profile := bookableProfile()
	repo := newFakeRepo()
	svc := NewService(repo, newFakeTherapistRepo(profile), nil)

	clientID := uuid.New()
	b, err := svc.Create(context.Background(), clientID, validCreateRequest(profile.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), clientID, b.ID, &CancelRequest{}); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	if _, err := svc.Confirm(context.Background(), profile.UserID, b.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Confirm after cancel error = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Fail(context.Background(), profile.UserID, b.ID, &FailRequest{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fail after cancel error = %v, want ErrInvalidTransition", err)
	}
}

func TestGetByIDHiddenFromStrangers(t *testing.T) {
	profile := bookableProfile()
	repo := newFakeRepo()
	svc := NewService(repo, newFakeTherapistRepo(profile), nil)

	clientID := uuid.New()
	b, err := svc.Create(context.Background(), clientID, validCreateRequest(profile.ID))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), uuid.New(), b.ID); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("stranger GetByID error = %v, want ErrNotParticipant", err)
	}
	if _, err := svc.GetByID(context.Background(), clientID, b.ID); err != nil {
		t.Errorf("client GetByID returned error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), profile.UserID, b.ID); err != nil {
		t.Errorf("therapist GetByID returned error: %v", err)
	}
}
