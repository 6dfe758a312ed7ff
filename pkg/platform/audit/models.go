// Package audit records regulatory-significant actions. Classification
// outcomes and overrides must be reconstructable after the fact, so the
// publisher is fail-closed: if the trail cannot be written, the business
// operation must not proceed.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names an audited operation.
type Action string

const (
	ActionUserRegistered       Action = "user_registered"
	ActionUserLoggedIn         Action = "user_logged_in"
	ActionUserLoggedOut        Action = "user_logged_out"
	ActionSubmissionCreated    Action = "submission_created"
	ActionSubmissionOverridden Action = "submission_overridden"
	ActionSubmissionReassessed Action = "submission_reassessed"
	ActionCatalogUpserted      Action = "catalog_entry_upserted"
	ActionCatalogDeleted       Action = "catalog_entry_deleted"
)

// Event is one entry of the audit trail. Detail carries action-specific
// context such as the band assigned or the justification given; keep it
// free of raw personal data.
type Event struct {
	ID        uuid.UUID         `json:"id"`
	Action    Action            `json:"action"`
	ActorID   string            `json:"actorId"`
	SubjectID string            `json:"subjectId,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Sink forwards events to an external system, e.g. a Kafka topic consumed
// by the compliance pipeline.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
