package allocator

import (
	"context"
	"sync"
)

// InMemorySet is the default issued-identifier set: process-local, no
// persistence, no cross-process sharing.
type InMemorySet struct {
	mu     sync.Mutex
	issued map[string]struct{}
}

// NewInMemorySet creates an empty in-memory issued-set.
func NewInMemorySet() *InMemorySet {
	return &InMemorySet{issued: make(map[string]struct{})}
}

func (s *InMemorySet) TryAdd(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.issued[id]; ok {
		return false, nil
	}
	s.issued[id] = struct{}{}
	return true, nil
}

func (s *InMemorySet) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued = make(map[string]struct{})
	return nil
}

// Len reports how many identifiers have been recorded. Test helper.
func (s *InMemorySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.issued)
}
