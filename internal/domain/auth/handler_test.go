package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/calmora/calmora-api/internal/middleware"
	"github.com/calmora/calmora-api/internal/pkg/jwt"
)

type sessionEnvelope struct {
	Success bool            `json:"success"`
	Data    SessionResponse `json:"data"`
}

func sessionVia(t *testing.T, authHeader string) sessionEnvelope {
	t.Helper()

	jwtService := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	repo := newFakeUserRepo()
	svc := NewService(repo, jwtService, nil)
	handler := NewHandler(svc)
	router := handler.Routes(middleware.Auth(jwtService), middleware.OptionalAuth(jwtService))

	// Register through the API so the fake repo holds a real account
	registered, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		FullName: "Anna Lee",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	switch authHeader {
	case "valid":
		req.Header.Set("Authorization", "Bearer "+registered.Tokens.AccessToken)
	case "":
	default:
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /session status = %d, want 200", rec.Code)
	}

	var env sessionEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return env
}

func TestSessionAnonymous(t *testing.T) {
	env := sessionVia(t, "")

	if env.Data.IsAuthenticated {
		t.Error("anonymous session reported as authenticated")
	}
	if env.Data.IsLoading {
		t.Error("server-resolved session must never be loading")
	}
	if env.Data.User != nil {
		t.Error("anonymous session carries user data")
	}
}

func TestSessionAuthenticated(t *testing.T) {
	env := sessionVia(t, "valid")

	if !env.Data.IsAuthenticated {
		t.Error("valid token should produce an authenticated session")
	}
	if env.Data.User == nil || env.Data.User.Email != "anna@example.com" {
		t.Errorf("session user = %+v, want anna@example.com", env.Data.User)
	}
}

func TestSessionWithGarbageToken(t *testing.T) {
	env := sessionVia(t, "Bearer not-a-token")

	if env.Data.IsAuthenticated {
		t.Error("garbage token should fall back to an unauthenticated session")
	}
}
