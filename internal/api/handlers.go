package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"campus-collective/agora/internal/auth"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// eventIDFromPath pulls the {eventId} path parameter and checks it parses
// as a UUID before it reaches a query.
func eventIDFromPath(r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "eventId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// viewerID returns the authenticated user id, or "" for anonymous requests.
func viewerID(r *http.Request) string {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		return ""
	}
	return claims.UserID()
}

// intQueryParam parses an optional positive integer query parameter.
// Absent means 0; the service layer applies its defaults.
func intQueryParam(r *http.Request, name string) (int, bool) {
	qs := r.URL.Query().Get(name)
	if qs == "" {
		return 0, true
	}
	n, err := strconv.Atoi(qs)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
