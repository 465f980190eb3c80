package nav

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calmora/calmora-api/internal/middleware"
	"github.com/calmora/calmora-api/internal/pkg/response"
)

// Handler serves server-driven route resolution for the web client.
type Handler struct {
	table *Table
}

// NewHandler creates nav handler
func NewHandler(table *Table) *Handler {
	return &Handler{table: table}
}

// ResolveResponse is the resolved page descriptor returned to the client.
type ResolveResponse struct {
	Page    string            `json:"page"`
	Path    string            `json:"path"`
	Params  map[string]string `json:"params,omitempty"`
	Session SessionResponse   `json:"session"`
}

// SessionResponse mirrors the gating flags used for the resolution.
type SessionResponse struct {
	IsAuthenticated bool `json:"is_authenticated"`
	IsLoading       bool `json:"is_loading"`
}

// Resolve handles GET /nav/resolve?path=...
//
// The session is derived from the optional bearer token: a missing or invalid
// token means an unauthenticated session, never a 401. The server is never
// mid-auth-check, so is_loading is always false here.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}

	session := Session{
		Authenticated: middleware.GetUserID(r.Context()) != uuid.Nil,
	}

	match := h.table.Resolve(session, path)

	response.OK(w, ResolveResponse{
		Page:   string(match.Page),
		Path:   path,
		Params: match.Params,
		Session: SessionResponse{
			IsAuthenticated: session.Authenticated,
			IsLoading:       session.Loading,
		},
	})
}

// Routes returns nav router. The resolver uses optional auth: it must answer
// for anonymous visitors too.
func (h *Handler) Routes(optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/resolve", h.Resolve)
	})

	return r
}
