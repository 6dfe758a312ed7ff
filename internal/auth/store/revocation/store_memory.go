package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process revocation list for development and tests.
// Expired entries are dropped lazily on lookup.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time)}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}
