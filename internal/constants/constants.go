package constants

// Session and gin context keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyViewer   = "viewer"
	ContextKeyTask     = "task"
	ContextKeyProject  = "project"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Session cookie
const (
	SessionName   = "task_session"
	SessionMaxAge = 86400 * 7
)

const MaxTitleLength = 255
