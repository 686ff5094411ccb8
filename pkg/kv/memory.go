package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It backs tests and the "memory" adapter,
// where persistence across restarts is not wanted.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string

	// FailWrites simulates a broken backing store; tests use it to verify
	// that storage errors never escape the cache layer.
	FailWrites error
	FailReads  error
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailReads != nil {
		return "", false, m.FailReads
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.entries[key] = value
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailReads != nil {
		return nil, m.FailReads
	}
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *Memory) MultiRemove(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Close is a no-op for the in-process store.
func (m *Memory) Close() error { return nil }

// Len reports the number of entries. Exposed for tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
