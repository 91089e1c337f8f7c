package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/etlabapp/gateway/internal/errors"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginError is the login endpoint's error shape. Mobile clients parse
// this contract, so it differs from the uniform envelope used elsewhere.
type loginError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expiresAt"`
}

// LoginHandler authenticates credentials against the portal and returns
// a gateway token. A user who already holds a live session gets their
// existing token back rather than a fresh portal login.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, loginError{
				Error:   "Invalid request body",
				Message: "Request body must be valid JSON with username and password",
			})
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || strings.TrimSpace(req.Password) == "" {
			s.writeJSON(w, http.StatusUnauthorized, loginError{
				Error:   "Username and password are required",
				Message: "Please provide both username and password",
			})
			return
		}

		// Cache hit: reuse the session's token while it is still valid.
		if record, ok := s.sessions.Get(req.Username); ok && record.Password == req.Password && s.codec.Validate(record.AppToken) {
			s.sessions.Touch(req.Username)
			expiresAt, _ := s.codec.ExpiresAt(record.AppToken)
			s.log.Info().Str("username", req.Username).Msg("login served from existing session")
			s.writeJSON(w, http.StatusOK, tokenResponse{
				Token:     record.AppToken,
				Type:      "Bearer",
				Username:  req.Username,
				ExpiresAt: expiresAt.UnixMilli(),
			})
			return
		}

		upstreamToken, err := s.upstream.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			s.writeLoginError(w, r, err)
			return
		}

		appToken, err := s.codec.Issue(req.Username)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to issue token")
			s.writeJSON(w, http.StatusInternalServerError, loginError{
				Error:   "Service temporarily unavailable",
				Message: "Please try again later",
			})
			return
		}

		if err := s.sessions.Upsert(req.Username, upstreamToken, req.Password, appToken); err != nil {
			s.log.Error().Err(err).Msg("failed to store session")
			s.writeJSON(w, http.StatusInternalServerError, loginError{
				Error:   "Service temporarily unavailable",
				Message: "Please try again later",
			})
			return
		}

		expiresAt, _ := s.codec.ExpiresAt(appToken)
		s.log.Info().Str("username", req.Username).Msg("login succeeded")
		s.writeJSON(w, http.StatusOK, tokenResponse{
			Token:     appToken,
			Type:      "Bearer",
			Username:  req.Username,
			ExpiresAt: expiresAt.UnixMilli(),
		})
	}
}

func (s *Server) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Warn().Err(err).Str("path", r.URL.Path).Msg("login failed")
	switch {
	case apperrors.Is(err, apperrors.ErrValidation):
		s.writeJSON(w, http.StatusUnauthorized, loginError{
			Error:   "Username and password are required",
			Message: "Please provide both username and password",
		})
	case apperrors.Is(err, apperrors.ErrAuthentication):
		s.writeJSON(w, http.StatusUnauthorized, loginError{
			Error:   "Invalid username or password",
			Message: "Please check your credentials and try again",
		})
	case apperrors.Is(err, apperrors.ErrRateLimited):
		s.writeJSON(w, http.StatusTooManyRequests, loginError{
			Error:   "Too many login attempts",
			Message: "Please wait a moment and try again",
		})
	default:
		s.writeJSON(w, http.StatusInternalServerError, loginError{
			Error:   "Service temporarily unavailable",
			Message: "Please try again later",
		})
	}
}

// LogoutHandler drops the caller's session. The gateway token itself
// stays valid until expiry but no longer maps to a session.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := usernameFromContext(r.Context())
		s.sessions.Remove(username)
		s.log.Info().Str("username", username).Msg("logged out")
		s.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
}

type validateResponse struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
}

// ValidateTokenHandler reports whether the gateway token in the
// Authorization header is valid, without touching the upstream portal.
// A bad token is a valid=false answer, not an error; only a missing
// header is a client error.
func (s *Server) ValidateTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			s.writeError(w, r, http.StatusBadRequest, "Missing Authorization header")
			return
		}

		if !s.codec.Validate(raw) {
			s.writeJSON(w, http.StatusOK, validateResponse{Valid: false})
			return
		}

		username, err := s.codec.Username(raw)
		if err != nil {
			s.writeJSON(w, http.StatusOK, validateResponse{Valid: false})
			return
		}
		s.writeJSON(w, http.StatusOK, validateResponse{Valid: true, Username: username})
	}
}

type sessionInfoResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	LastActivity  string `json:"lastActivity,omitempty"`
	SessionCount  int    `json:"sessionCount"`
}

// SessionInfoHandler is a diagnostics endpoint. It reports whether the
// caller's token maps to a live session, plus the total session count.
// It accepts unauthenticated callers and reports authenticated=false.
func (s *Server) SessionInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := sessionInfoResponse{SessionCount: s.sessions.Count()}

		if raw := bearerToken(r); raw != "" && s.codec.Validate(raw) {
			if username, err := s.codec.Username(raw); err == nil {
				if record, ok := s.sessions.Get(username); ok {
					resp.Authenticated = true
					resp.Username = username
					resp.LastActivity = record.LastActivity.UTC().Format(time.RFC3339)
				}
			}
		}

		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
