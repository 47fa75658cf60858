package common

// SessionCookieName is the only cookie the server ever sets.
const SessionCookieName = "session"

// Route paths shared between the auth guard and the handlers.
const (
	LoginPath     = "/admin"
	LoginPostPath = "/admin/login"
	LogoutPath    = "/admin/logout"
	DashboardPath = "/admin/dashboard"
)
