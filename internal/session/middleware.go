package session

import (
	"context"
	"net/http"

	"github.com/beelink/governance-backend/internal/models"
)

type contextKey string

const nameKey contextKey = "sessionName"

// Middleware resolves the session cookie and, when valid, attaches the
// display name to the request context. It never rejects: endpoints that
// require a session wrap RequireSession instead.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name, ok := nameFromRequest(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), nameKey, name))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession rejects requests without an established session.
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := nameFromRequest(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "No session"})
			return
		}
		ctx := context.WithValue(r.Context(), nameKey, name)
		next(w, r.WithContext(ctx))
	}
}

// NameFromContext returns the session display name attached by Middleware
// or RequireSession.
func NameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(nameKey).(string)
	return name, ok && name != ""
}
