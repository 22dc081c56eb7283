package paymentlink

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"fundrace/pkg/platform/sentinel"
)

// InMemoryStore keeps payment links in a map, for tests and development.
type InMemoryStore struct {
	mu    sync.RWMutex
	links map[uuid.UUID]*PaymentLink
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{links: make(map[uuid.UUID]*PaymentLink)}
}

func (s *InMemoryStore) Create(_ context.Context, link *PaymentLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *link
	s.links[link.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*PaymentLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *link
	return &cp, nil
}

func (s *InMemoryStore) Update(_ context.Context, link *PaymentLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[link.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *link
	s.links[link.ID] = &cp
	return nil
}

func (s *InMemoryStore) List(_ context.Context, activeOnly bool) ([]*PaymentLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	links := make([]*PaymentLink, 0, len(s.links))
	for _, link := range s.links {
		if activeOnly && !link.Active {
			continue
		}
		cp := *link
		links = append(links, &cp)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].SortOrder != links[j].SortOrder {
			return links[i].SortOrder < links[j].SortOrder
		}
		return links[i].Label < links[j].Label
	})
	return links, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.links, id)
	return nil
}
