package domain

// Session is the identity claim recovered from a verified token. It is never
// persisted; it exists only for the lifetime of a request. An anonymous
// request simply has no Session (never a zero-valued one).
type Session struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
