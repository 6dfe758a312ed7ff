// Package auth holds user accounts and role definitions.
package auth

import (
	"time"

	"github.com/google/uuid"
)

// Roles, least to most privileged. Users create and read their own
// submissions; approvers additionally review and override; admins manage
// master data.
const (
	RoleUser     = "user"
	RoleApprover = "approver"
	RoleAdmin    = "admin"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch s {
	case RoleUser, RoleApprover, RoleAdmin:
		return true
	}
	return false
}

// CanReview reports whether the role may read and override other users'
// submissions.
func CanReview(role string) bool {
	return role == RoleApprover || role == RoleAdmin
}

// User is an account. PasswordHash is a bcrypt hash, never the raw secret.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
