package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"riskgate/internal/submission"
	"riskgate/pkg/platform/sentinel"
)

// Memory is an in-memory submission store for development and tests.
type Memory struct {
	mu          sync.RWMutex
	submissions map[uuid.UUID]*submission.Submission
}

func NewMemory() *Memory {
	return &Memory{submissions: make(map[uuid.UUID]*submission.Submission)}
}

func (m *Memory) Create(_ context.Context, sub *submission.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.submissions[sub.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *sub
	m.submissions[sub.ID] = &clone
	return nil
}

func (m *Memory) Get(_ context.Context, id uuid.UUID) (*submission.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.submissions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *sub
	return &clone, nil
}

func (m *Memory) ListAll(_ context.Context) ([]*submission.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(*submission.Submission) bool { return true }), nil
}

func (m *Memory) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*submission.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(s *submission.Submission) bool { return s.OwnerID == ownerID }), nil
}

// collect assumes the read lock is held. Newest first, matching the
// Postgres store's ordering.
func (m *Memory) collect(match func(*submission.Submission) bool) []*submission.Submission {
	out := make([]*submission.Submission, 0, len(m.submissions))
	for _, sub := range m.submissions {
		if match(sub) {
			clone := *sub
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *Memory) Update(_ context.Context, sub *submission.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.submissions[sub.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *sub
	m.submissions[sub.ID] = &clone
	return nil
}
