package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// App Routes - Session lifecycle
	RouteLogin  = "/app/login"
	RouteLogout = "/app/logout"

	// App Routes - Portal data
	RouteProfile       = "/app/profile"
	RouteAttendance    = "/app/attendance"
	RouteResults       = "/app/results"
	RouteTimetable     = "/app/timetable"
	RouteEndSemResults = "/app/end-sem-results"

	// App Routes - Diagnostics
	RouteSessionInfo = "/app/session"

	// Auth Routes
	RouteValidate = "/auth/validate"

	// Operational Routes
	RouteHealth = "/healthz"
)
