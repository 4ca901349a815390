package store

import (
	"context"
	"sync"
)

// Memory is the in-process fallback backend. Data lives as long as the process.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func memKey(scope, key string) string { return scope + "\x00" + key }

func (m *Memory) Get(_ context.Context, scope, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[memKey(scope, key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, scope, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[memKey(scope, key)] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, memKey(scope, key))
	return nil
}
