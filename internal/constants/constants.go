package constants

// Session
const (
	SessionCookieName = "groupware_session"
	ContextKeyUserID  = "user_id"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Progress bounds for tasks
const (
	MinProgress = 0
	MaxProgress = 100
)
