package settings

import (
	"context"
	"sync"

	"fundrace/pkg/platform/sentinel"
)

// InMemoryStore keeps the settings row in process memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	settings *Settings
}

// NewInMemoryStore creates an empty in-memory settings store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Get(_ context.Context) (*Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.settings.Clone(), nil
}

func (s *InMemoryStore) Upsert(_ context.Context, settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Clone()
	return nil
}
