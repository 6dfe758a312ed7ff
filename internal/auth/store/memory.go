package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"riskgate/internal/auth"
	"riskgate/pkg/platform/sentinel"
)

// Memory is an in-memory user store for development and tests.
type Memory struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*auth.User
	byEmail map[string]uuid.UUID
}

func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[uuid.UUID]*auth.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (m *Memory) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := m.byEmail[email]; exists {
		return sentinel.ErrConflict
	}
	clone := *user
	m.byID[user.ID] = &clone
	m.byEmail[email] = user.ID
	return nil
}

func (m *Memory) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *m.byID[id]
	return &clone, nil
}

func (m *Memory) GetByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *user
	return &clone, nil
}
