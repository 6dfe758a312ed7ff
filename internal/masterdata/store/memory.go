package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"riskgate/internal/masterdata"
	"riskgate/pkg/platform/sentinel"
)

// Memory is an in-memory catalog store for development and tests.
type Memory struct {
	mu       sync.RWMutex
	catalogs map[masterdata.Catalog]map[string]masterdata.Entry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	catalogs := make(map[masterdata.Catalog]map[string]masterdata.Entry, len(masterdata.Catalogs))
	for _, c := range masterdata.Catalogs {
		catalogs[c] = make(map[string]masterdata.Entry)
	}
	return &Memory{catalogs: catalogs}
}

func (m *Memory) Get(_ context.Context, catalog masterdata.Catalog, key string) (masterdata.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.catalogs[catalog]
	if !ok {
		return masterdata.Entry{}, sentinel.ErrNotFound
	}
	entry, ok := entries[strings.ToLower(key)]
	if !ok {
		return masterdata.Entry{}, sentinel.ErrNotFound
	}
	return entry, nil
}

func (m *Memory) List(_ context.Context, catalog masterdata.Catalog) ([]masterdata.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.catalogs[catalog]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make([]masterdata.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *Memory) Upsert(_ context.Context, catalog masterdata.Catalog, entry masterdata.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.catalogs[catalog]
	if !ok {
		return sentinel.ErrNotFound
	}
	entries[strings.ToLower(entry.Key)] = entry
	return nil
}

func (m *Memory) Delete(_ context.Context, catalog masterdata.Catalog, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.catalogs[catalog]
	if !ok {
		return sentinel.ErrNotFound
	}
	lower := strings.ToLower(key)
	if _, ok := entries[lower]; !ok {
		return sentinel.ErrNotFound
	}
	delete(entries, lower)
	return nil
}
