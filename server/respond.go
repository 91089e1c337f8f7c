package server

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/etlabapp/gateway/internal/errors"
)

// errorResponse is the uniform error envelope for the data endpoints.
type errorResponse struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeRawJSON sends an already-encoded JSON document.
func (s *Server) writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.log.Error().Err(err).Msg("failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, status, errorResponse{
		Error:     true,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
		Status:    status,
	})
}

// writeClassifiedError maps a domain error onto an HTTP status and a
// client-safe message. The underlying error text stays in the logs.
func (s *Server) writeClassifiedError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classifyError(err)
	s.log.Warn().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	s.writeError(w, r, status, message)
}

func classifyError(err error) (int, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrAuthentication),
		apperrors.Is(err, apperrors.ErrInvalidToken),
		apperrors.Is(err, apperrors.ErrNoSession):
		return http.StatusUnauthorized, "Authentication failed. Please check your credentials and try again."
	case apperrors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "Invalid request. Please check the submitted data and try again."
	case apperrors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests. Please try again later."
	case apperrors.Is(err, apperrors.ErrUpstreamClient):
		return http.StatusBadRequest, "External service error. Please try again later."
	case apperrors.Is(err, apperrors.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, "External service is temporarily unavailable. Please try again later."
	case apperrors.Is(err, apperrors.ErrEmptyResponse):
		return http.StatusInternalServerError, "External service returned an empty response. Please try again later."
	default:
		return http.StatusInternalServerError, "An unexpected error occurred. Please try again later."
	}
}
