package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"neurosym/domain/core"
	"neurosym/ports"
)

// MemStore is an in-memory storage collaborator. Safe for concurrent use;
// the default backend for tests and single-process experiments.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// Put writes value under key, overwriting any previous value
func (m *MemStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Get reads the value stored under key
func (m *MemStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, core.NewNotFoundError("key", key)
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// List returns the stored keys with the given prefix, sorted
func (m *MemStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

var _ ports.Storage = (*MemStore)(nil)
