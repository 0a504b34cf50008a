package cache

import (
	"context"
	"sync"
)

// Memory is the default in-process cache backend
type Memory struct {
	mu      sync.RWMutex
	entries map[string]map[string][]byte // identity → field → payload
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]map[string][]byte)}
}

// Get returns the cached payload for a key, if present
func (m *Memory) Get(_ context.Context, key Key) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.entries[key.Identity]
	if !ok {
		return nil, false, nil
	}
	payload, ok := fields[key.Field()]
	return payload, ok, nil
}

// Set stores a payload under a key
func (m *Memory) Set(_ context.Context, key Key, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields, ok := m.entries[key.Identity]
	if !ok {
		fields = make(map[string][]byte)
		m.entries[key.Identity] = fields
	}
	fields[key.Field()] = payload
	return nil
}

// Invalidate drops every payload cached for an identity
func (m *Memory) Invalidate(_ context.Context, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, identity)
	return nil
}
