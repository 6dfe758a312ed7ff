// Package postgres persists the audit trail in the audit_events table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	audit "riskgate/pkg/platform/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	detail, err := json.Marshal(event.Detail)
	if err != nil {
		return fmt.Errorf("marshal audit detail: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, action, actor_id, subject_id, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, string(event.Action), event.ActorID, event.SubjectID, detail, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListRecent returns the most recent limit events, oldest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, actor_id, subject_id, detail, created_at FROM (
		     SELECT id, action, actor_id, subject_id, detail, created_at
		     FROM audit_events ORDER BY created_at DESC LIMIT $1
		 ) recent ORDER BY created_at ASC`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var event audit.Event
		var action string
		var detail []byte
		if err := rows.Scan(&event.ID, &action, &event.ActorID, &event.SubjectID, &detail, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Action = audit.Action(action)
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &event.Detail); err != nil {
				return nil, fmt.Errorf("unmarshal audit detail: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
