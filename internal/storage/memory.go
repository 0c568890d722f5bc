package storage

import (
	"context"
	"sync"
)

// memoryKV is an in-process KV backend for development and tests.
type memoryKV struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryStore builds a Store over a volatile in-memory backend.
func NewMemoryStore() *Store {
	return NewStore(&memoryKV{blobs: make(map[string][]byte)})
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.blobs[key] = stored
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *memoryKV) Close() error {
	return nil
}
