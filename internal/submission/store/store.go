// Package store provides persistence for submissions.
package store

import (
	"context"

	"github.com/google/uuid"

	"riskgate/internal/submission"
)

// Store persists submissions. Implementations return sentinel.ErrNotFound
// for unknown IDs.
type Store interface {
	Create(ctx context.Context, sub *submission.Submission) error
	Get(ctx context.Context, id uuid.UUID) (*submission.Submission, error)
	ListAll(ctx context.Context) ([]*submission.Submission, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*submission.Submission, error)
	Update(ctx context.Context, sub *submission.Submission) error
}
