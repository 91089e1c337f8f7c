package server

import "net/http"

func (s *Server) initRoutes() {
	// Session lifecycle
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireToken())...))

	// Token validation for clients that want to check before calling
	s.RegisterRouteHandler("POST "+RouteValidate, ChainMiddleware(s.ValidateTokenHandler(), s.APIMiddleware()...))

	// Portal data, all behind a valid gateway token
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.APIMiddleware(s.RequireToken())...))
	s.RegisterRouteHandler("GET "+RouteAttendance, ChainMiddleware(s.AttendanceHandler(), s.APIMiddleware(s.RequireToken())...))
	s.RegisterRouteHandler("GET "+RouteResults, ChainMiddleware(s.ResultsHandler(), s.APIMiddleware(s.RequireToken())...))
	s.RegisterRouteHandler("GET "+RouteTimetable, ChainMiddleware(s.TimetableHandler(), s.APIMiddleware(s.RequireToken())...))
	s.RegisterRouteHandler("GET "+RouteEndSemResults, ChainMiddleware(s.EndSemResultsHandler(), s.APIMiddleware(s.RequireToken())...))

	// Diagnostics
	s.RegisterRouteHandler("GET "+RouteSessionInfo, ChainMiddleware(s.SessionInfoHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	// CORS preflight for every route
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}

// PreflightHandler terminates OPTIONS requests that the CORS middleware
// has not already answered.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}
