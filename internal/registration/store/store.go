// Package store persists registrations. Implementations return sentinel
// errors; services translate them into domain errors.
package store

import (
	"context"

	"github.com/google/uuid"

	"fundrace/internal/registration/models"
	"fundrace/pkg/platform/sentinel"
)

// ErrNotFound is returned when a registration does not exist.
var ErrNotFound = sentinel.ErrNotFound

// Filter narrows List results. Search matches case-insensitive substrings
// over participant name, teammate name, email, first contact number and team
// id. Zero Limit means the default page size.
type Filter struct {
	Status *models.Status
	Search string
	Page   int
	Limit  int
}

// DefaultPageSize bounds unpaginated listing requests.
const DefaultPageSize = 1000

// ListResult carries one page of registrations plus the total match count.
type ListResult struct {
	Registrations []*models.Registration
	Total         int
}

// Store is the persistence contract for registrations. Update replaces the
// full row atomically; there is no partial-field write, so a status
// transition and its derived fields land together.
type Store interface {
	Create(ctx context.Context, reg *models.Registration) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	Update(ctx context.Context, reg *models.Registration) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
