package store

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

type inMemory struct {
	mu      sync.RWMutex
	storage map[string]*Chart
}

// NewMemoryStore creates a process-local chart store.
func NewMemoryStore() ChartStore {
	return &inMemory{}
}

func (m *inMemory) Save(_ context.Context, chart *Chart) error {
	if chart.Key == "" {
		return errors.New("chart key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string]*Chart)
	}
	m.storage[chart.Key] = chart
	return nil
}

func (m *inMemory) Get(_ context.Context, key string) (*Chart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chart, ok := m.storage[key]
	if !ok {
		return nil, errors.WithStack(ErrNotFound)
	}
	return chart, nil
}

func (m *inMemory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.storage[key]
	return ok, nil
}

func (m *inMemory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage != nil {
		delete(m.storage, key)
	}
	return nil
}
