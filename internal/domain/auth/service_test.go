package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/calmora/calmora-api/internal/domain/user"
	"github.com/calmora/calmora-api/internal/pkg/jwt"
)

type fakeUserRepo struct {
	byEmail   map[string]*user.User
	byID      map[uuid.UUID]*user.User
	lastLogin map[uuid.UUID]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:   make(map[string]*user.User),
		byID:      make(map[uuid.UUID]*user.User),
		lastLogin: make(map[uuid.UUID]string),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return user.ErrDuplicateEmail
	}
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	if u, ok := f.byID[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, _ uuid.UUID, _ user.Role) error { return nil }

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, ip string) error {
	f.lastLogin[id] = ip
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if u, ok := f.byID[id]; ok {
		u.IsBanned = true
	}
	return nil
}

func newTestService(repo user.Repository) *Service {
	return NewService(repo, jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour), nil)
}

func TestRegisterCreatesClientAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "Anna@Example.com",
		Password: "correct-horse",
		FullName: "Anna Lee",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if resp.User.Role != "client" {
		t.Errorf("new account role = %q, want client", resp.User.Role)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Error("expected both tokens in response")
	}
	if _, ok := repo.byEmail["anna@example.com"]; !ok {
		t.Error("email was not normalized to lowercase")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	req := &RegisterRequest{Email: "anna@example.com", Password: "correct-horse", FullName: "Anna Lee"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "ANNA@example.com",
		Password: "other-password",
		FullName: "Another Anna",
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("duplicate Register error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		FullName: "Anna Lee",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "anna@example.com",
			Password: "correct-horse",
		}, "203.0.113.7")
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		if resp.Tokens.AccessToken == "" {
			t.Error("empty access token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "anna@example.com",
			Password: "wrong",
		}, "203.0.113.7")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct-horse",
		}, "203.0.113.7")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestLoginRejectsBannedUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		FullName: "Anna Lee",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	repo.byEmail["anna@example.com"].IsBanned = true

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
	}, "203.0.113.7")
	if !errors.Is(err, ErrUserBanned) {
		t.Errorf("error = %v, want ErrUserBanned", err)
	}
}

func TestRefreshRequiresToken(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Refresh(context.Background(), "")
	if !errors.Is(err, ErrRefreshTokenRequired) {
		t.Errorf("error = %v, want ErrRefreshTokenRequired", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		FullName: "Anna Lee",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	me, err := svc.GetCurrentUser(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("GetCurrentUser returned error: %v", err)
	}
	if me.Email != "anna@example.com" {
		t.Errorf("email = %q, want anna@example.com", me.Email)
	}

	if _, err := svc.GetCurrentUser(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user error = %v, want ErrUserNotFound", err)
	}
}

func TestLoginRecordsLastLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		FullName: "Anna Lee",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
	}, "203.0.113.7"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if got := repo.lastLogin[resp.User.ID]; got != "203.0.113.7" {
		t.Errorf("recorded login IP = %q, want 203.0.113.7", got)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		FullName: "Anna Lee",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
			CurrentPassword: "not-the-password",
			NewPassword:     "battery-staple",
		})
		if !errors.Is(err, ErrWrongPassword) {
			t.Errorf("error = %v, want ErrWrongPassword", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
			CurrentPassword: "correct-horse",
			NewPassword:     "battery-staple",
		})
		if err != nil {
			t.Fatalf("ChangePassword returned error: %v", err)
		}

		if _, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "anna@example.com",
			Password: "correct-horse",
		}, ""); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("old password error = %v, want ErrInvalidCredentials", err)
		}
		if _, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "anna@example.com",
			Password: "battery-staple",
		}, ""); err != nil {
			t.Errorf("new password Login returned error: %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), uuid.New(), &ChangePasswordRequest{
			CurrentPassword: "correct-horse",
			NewPassword:     "battery-staple",
		})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("error = %v, want ErrUserNotFound", err)
		}
	})
}

func TestDeleteAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		FullName: "Anna Lee",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := svc.DeleteAccount(context.Background(), resp.User.ID, resp.Tokens.RefreshToken); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
	}, ""); !errors.Is(err, ErrUserBanned) {
		t.Errorf("Login after delete error = %v, want ErrUserBanned", err)
	}

	if err := svc.DeleteAccount(context.Background(), uuid.New(), ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user error = %v, want ErrUserNotFound", err)
	}
}
