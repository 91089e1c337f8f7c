package server

import (
	"net/http"

	"github.com/etlabapp/gateway/etlab"
	"github.com/etlabapp/gateway/normalize"
)

// fetchHandler builds a handler that proxies one portal endpoint,
// passing the raw upstream body through the given transform.
func (s *Server) fetchHandler(path string, transform func([]byte) ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := usernameFromContext(r.Context())

		raw, err := s.upstream.Get(r.Context(), username, path)
		if err != nil {
			s.writeClassifiedError(w, r, err)
			return
		}

		body := raw
		if transform != nil {
			body, err = transform(raw)
			if err != nil {
				s.writeClassifiedError(w, r, err)
				return
			}
		}
		s.writeRawJSON(w, http.StatusOK, body)
	}
}

// ProfileHandler returns a flattened view of the portal profile.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := usernameFromContext(r.Context())

		raw, err := s.upstream.Get(r.Context(), username, etlab.EndpointProfile)
		if err != nil {
			s.writeClassifiedError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, normalize.Profile(raw))
	}
}

// AttendanceHandler reshapes the portal attendance payload into a
// subjects map plus metadata fields.
func (s *Server) AttendanceHandler() http.HandlerFunc {
	return s.fetchHandler(etlab.EndpointAttendance, normalize.Attendance)
}

// ResultsHandler extracts the sessional exam list from the portal
// results payload.
func (s *Server) ResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := usernameFromContext(r.Context())

		raw, err := s.upstream.Get(r.Context(), username, etlab.EndpointResults)
		if err != nil {
			s.writeClassifiedError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, normalize.SessionalResults(raw))
	}
}

// TimetableHandler returns the weekly timetable as a fixed seven-day,
// seven-period grid with HTML stripped from cell values.
func (s *Server) TimetableHandler() http.HandlerFunc {
	return s.fetchHandler(etlab.EndpointTimetable, normalize.Timetable)
}

// EndSemResultsHandler merges the exam list with the per-exam grade
// links in the portal's end-semester payload.
func (s *Server) EndSemResultsHandler() http.HandlerFunc {
	return s.fetchHandler(etlab.EndpointEndSemResults, normalize.EndSemResults)
}
