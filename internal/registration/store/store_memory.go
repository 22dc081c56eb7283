package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fundrace/internal/registration/models"
)

// InMemoryStore keeps registrations in process memory. Used in tests and
// when no database is configured.
type InMemoryStore struct {
	mu            sync.RWMutex
	registrations map[uuid.UUID]*models.Registration
}

// NewInMemoryStore creates an empty in-memory registration store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{registrations: make(map[uuid.UUID]*models.Registration)}
}

func (s *InMemoryStore) Create(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations[reg.ID] = reg.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return reg.Clone(), nil
}

// Update replaces the stored row. Concurrent updates to the same record are
// last-write-wins, matching the persistence contract.
func (s *InMemoryStore) Update(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registrations[reg.ID]; !ok {
		return ErrNotFound
	}
	s.registrations[reg.ID] = reg.Clone()
	return nil
}

func (s *InMemoryStore) List(_ context.Context, filter Filter) (*ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Registration, 0, len(s.registrations))
	for _, reg := range s.registrations {
		if filter.Status != nil && reg.Status != *filter.Status {
			continue
		}
		if !matchesSearch(reg, filter.Search) {
			continue
		}
		matched = append(matched, reg)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	page, limit := normalizePage(filter.Page, filter.Limit)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	out := make([]*models.Registration, 0, end-start)
	for _, reg := range matched[start:end] {
		out = append(out, reg.Clone())
	}
	return &ListResult{Registrations: out, Total: total}, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registrations[id]; !ok {
		return ErrNotFound
	}
	delete(s.registrations, id)
	return nil
}

func matchesSearch(reg *models.Registration, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	haystacks := []string{
		reg.ParticipantName,
		reg.TeammateName,
		reg.Email,
		reg.ContactNumber1,
	}
	if reg.TeamID != nil {
		haystacks = append(haystacks, *reg.TeamID)
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	return page, limit
}
