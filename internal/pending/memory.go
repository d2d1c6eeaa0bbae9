package pending

import (
	"context"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu  sync.Mutex
	url string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the pending URL.
func (m *Memory) Get(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.url == "" {
		return "", ErrNotFound
	}
	return m.url, nil
}

// Set replaces the pending URL.
func (m *Memory) Set(_ context.Context, raw string) error {
	u, err := Validate(raw)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.url = u
	m.mu.Unlock()
	return nil
}

// Clear removes the pending URL.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.url = ""
	m.mu.Unlock()
	return nil
}
