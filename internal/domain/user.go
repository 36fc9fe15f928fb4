package domain

import "time"

// Role determines what a user may do; every user has exactly one.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the identity record behind every authorization decision.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsSuspended  bool

	// Password reset ticket; both nil unless a reset is pending.
	ResetTokenHash *string
	ResetExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasActiveReset reports whether an unexpired reset ticket is pending.
func (u *User) HasActiveReset(now time.Time) bool {
	return u.ResetTokenHash != nil && u.ResetExpiresAt != nil && now.Before(*u.ResetExpiresAt)
}
