package domain

import "time"

// Role is the closed set of authorization roles. Roles are compared by
// equality only; ADMIN does not imply USER.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole validates a role string coming from an untrusted source
// (token claims, request payloads).
func ParseRole(val string) (Role, bool) {
	switch Role(val) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}

// User is the domain model for shop accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
