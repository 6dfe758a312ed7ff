// Package store provides persistence for user accounts.
package store

import (
	"context"

	"github.com/google/uuid"

	"riskgate/internal/auth"
)

// Store persists users. Emails are unique, matched case-insensitively;
// implementations return sentinel.ErrConflict for duplicates and
// sentinel.ErrNotFound for unknown users.
type Store interface {
	Create(ctx context.Context, user *auth.User) error
	GetByEmail(ctx context.Context, email string) (*auth.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
}
