package nav

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/calmora/calmora-api/internal/middleware"
	"github.com/calmora/calmora-api/internal/pkg/jwt"
)

func resolveVia(t *testing.T, token, path string) ResolveResponse {
	t.Helper()

	jwtSvc := jwt.NewService("secret", time.Minute, time.Hour)
	h := NewHandler(New())
	router := h.Routes(middleware.OptionalAuth(jwtSvc))

	req := httptest.NewRequest(http.MethodGet, "/resolve?path="+path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var out struct {
		Data ResolveResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out.Data
}

func TestResolveEndpointAnonymous(t *testing.T) {
	got := resolveVia(t, "", "/therapists")
	if got.Page != string(PageNotFound) {
		t.Fatalf("expected not_found for anonymous /therapists, got %q", got.Page)
	}
	if got.Session.IsAuthenticated {
		t.Fatal("anonymous session must not be authenticated")
	}

	got = resolveVia(t, "", "/")
	if got.Page != string(PageLanding) {
		t.Fatalf("expected landing for anonymous /, got %q", got.Page)
	}
}

func TestResolveEndpointAuthenticated(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute, time.Hour)
	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "client", false)
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}

	got := resolveVia(t, token, "/therapists")
	if got.Page != string(PageTherapistList) {
		t.Fatalf("expected therapist_list, got %q", got.Page)
	}
	if !got.Session.IsAuthenticated {
		t.Fatal("session should be authenticated")
	}
}

func TestResolveEndpointInvalidTokenFallsBackToPublic(t *testing.T) {
	got := resolveVia(t, "garbage-token", "/client-dashboard")
	if got.Page != string(PageNotFound) {
		t.Fatalf("expected not_found with invalid token, got %q", got.Page)
	}
	if got.Session.IsAuthenticated {
		t.Fatal("invalid token must not authenticate the session")
	}
}
