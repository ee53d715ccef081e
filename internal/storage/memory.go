package storage

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// NopStore stands in when no storage is reachable: nothing is ever found and
// writes are dropped.
type NopStore struct{}

func (NopStore) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }
func (NopStore) Set(ctx context.Context, key, value string) error          { return nil }
func (NopStore) Remove(ctx context.Context, key string) error              { return nil }
func (NopStore) Close() error                                              { return nil }

// --- Compile-time assertions ---
var _ KeyValueStore = (*MemoryStore)(nil)
var _ KeyValueStore = NopStore{}
