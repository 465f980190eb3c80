package nav

import (
	"reflect"
	"testing"
)

func TestResolveLoadingShowsOnlyLanding(t *testing.T) {
	table := New()

	paths := []string{"/", "/therapists", "/client-dashboard", "/xyz"}
	for _, authenticated := range []bool{true, false} {
		session := Session{Authenticated: authenticated, Loading: true}
		for _, path := range paths {
			got := table.Resolve(session, path)
			want := PageNotFound
			if path == "/" {
				want = PageLanding
			}
			if got.Page != want {
				t.Errorf("Resolve(loading, auth=%v, %q) = %q, want %q", authenticated, path, got.Page, want)
			}
		}
	}
}

func TestResolveUnauthenticated(t *testing.T) {
	table := New()
	session := Session{}

	if got := table.Resolve(session, "/"); got.Page != PageLanding {
		t.Fatalf("expected landing for /, got %q", got.Page)
	}

	for _, path := range []string{"/therapists", "/therapists/abc", "/booking", "/client-dashboard", "/register-therapist", "/xyz"} {
		if got := table.Resolve(session, path); got.Page != PageNotFound {
			t.Errorf("Resolve(unauth, %q) = %q, want not_found", path, got.Page)
		}
	}
}

func TestResolveAuthenticatedRoutes(t *testing.T) {
	table := New()
	session := Session{Authenticated: true}

	tests := []struct {
		path   string
		page   Page
		params map[string]string
	}{
		{"/", PageHome, nil},
		{"/therapists", PageTherapistList, nil},
		{"/therapists/7f4c", PageTherapistDetail, map[string]string{"id": "7f4c"}},
		{"/booking", PageBooking, nil},
		{"/booking/7f4c", PageBooking, map[string]string{"therapistId": "7f4c"}},
		{"/booking-success/b-1", PageBookingSuccess, map[string]string{"bookingId": "b-1"}},
		{"/booking-failure/b-1", PageBookingFailure, map[string]string{"bookingId": "b-1"}},
		{"/client-dashboard", PageClientDashboard, nil},
		{"/therapist-dashboard", PageTherapistDashboard, nil},
		{"/register-therapist", PageTherapistRegister, nil},
	}

	for _, tt := range tests {
		got := table.Resolve(session, tt.path)
		if got.Page != tt.page {
			t.Errorf("Resolve(auth, %q) = %q, want %q", tt.path, got.Page, tt.page)
			continue
		}
		if !reflect.DeepEqual(got.Params, tt.params) {
			t.Errorf("Resolve(auth, %q) params = %v, want %v", tt.path, got.Params, tt.params)
		}
	}
}

func TestResolveUnmatchedAuthenticated(t *testing.T) {
	table := New()
	session := Session{Authenticated: true}

	for _, path := range []string{
		"/xyz",
		"/therapists/abc/reviews",
		"/booking/a/b",
		"/booking-success",
		"/booking-failure",
		"/client-dashboard/extra",
	} {
		if got := table.Resolve(session, path); got.Page != PageNotFound {
			t.Errorf("Resolve(auth, %q) = %q, want not_found", path, got.Page)
		}
	}
}

func TestResolveTrailingSlash(t *testing.T) {
	table := New()
	session := Session{Authenticated: true}

	if got := table.Resolve(session, "/therapists/"); got.Page != PageTherapistList {
		t.Fatalf("expected therapist_list for /therapists/, got %q", got.Page)
	}
}

func TestResolveIdempotent(t *testing.T) {
	table := New()

	sessions := []Session{
		{},
		{Loading: true},
		{Authenticated: true},
		{Authenticated: true, Loading: true},
	}
	paths := []string{"/", "/therapists/abc", "/booking", "/nope"}

	for _, session := range sessions {
		for _, path := range paths {
			first := table.Resolve(session, path)
			second := table.Resolve(session, path)
			if !reflect.DeepEqual(first, second) {
				t.Errorf("Resolve(%+v, %q) not idempotent: %+v vs %+v", session, path, first, second)
			}
		}
	}
}
