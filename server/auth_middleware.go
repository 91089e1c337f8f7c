package server

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUsername stores the authenticated username
const ContextKeyUsername ContextKey = "username"

// RequireToken is middleware that validates a gateway Bearer token and
// injects the authenticated username into the request context. It does
// not touch the upstream portal; session liveness is checked by the
// handlers that need it.
func (s *Server) RequireToken() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				s.writeError(w, r, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				s.writeError(w, r, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" || !s.codec.Validate(raw) {
				s.writeError(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			username, err := s.codec.Username(raw)
			if err != nil || username == "" {
				s.writeError(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUsername, username)
			next(w, r.WithContext(ctx))
		}
	}
}

// bearerToken extracts the Bearer credential from the Authorization
// header, or "" when the header is absent or carries another scheme.
func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func usernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(ContextKeyUsername).(string)
	return username
}
