package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundrace/internal/registration/models"
)

func newStoredRegistration(t *testing.T, name, email string, createdAt time.Time) *models.Registration {
	t.Helper()
	reg, err := models.NewRegistration(uuid.New(), models.NewRegistrationInput{
		ParticipantName:      name,
		TeammateName:         "Teammate",
		Email:                email,
		Address:              "Somewhere 1",
		ContactNumber1:       "+351910000000",
		WhatsappNumber:       "+351910000000",
		Zone:                 "North",
		Diocese:              "Porto",
		HowKnown:             "parish",
		Amount:               decimal.NewFromFloat(20),
		PaymentScreenshotURL: "https://img.example/s.png",
		PaymentLinkUsed:      "mbway",
	}, createdAt)
	require.NoError(t, err)
	return reg
}

func TestInMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	reg := newStoredRegistration(t, "Maria", "maria@example.com", time.Now())
	require.NoError(t, s.Create(ctx, reg))

	found, err := s.FindByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, found.ID)

	// Stored rows must not alias caller state.
	found.ParticipantName = "mutated"
	again, err := s.FindByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", again.ParticipantName)

	require.NoError(t, s.Delete(ctx, reg.ID))
	_, err = s.FindByID(ctx, reg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreUpdateUnknownID(t *testing.T) {
	s := NewInMemoryStore()
	reg := newStoredRegistration(t, "Maria", "maria@example.com", time.Now())
	assert.ErrorIs(t, s.Update(context.Background(), reg), ErrNotFound)
}

func TestInMemoryStoreListFilters(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	base := time.Now()

	maria := newStoredRegistration(t, "Maria Silva", "maria@example.com", base.Add(-2*time.Hour))
	ana := newStoredRegistration(t, "Ana Costa", "ana@example.com", base.Add(-1*time.Hour))
	joao := newStoredRegistration(t, "Joao Reis", "joao@example.com", base)
	teamID := "654321"
	joao.Status = models.StatusConfirmed
	joao.TeamID = &teamID

	for _, reg := range []*models.Registration{maria, ana, joao} {
		require.NoError(t, s.Create(ctx, reg))
	}

	t.Run("orders newest first", func(t *testing.T) {
		res, err := s.List(ctx, Filter{})
		require.NoError(t, err)
		require.Equal(t, 3, res.Total)
		assert.Equal(t, joao.ID, res.Registrations[0].ID)
		assert.Equal(t, maria.ID, res.Registrations[2].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		confirmed := models.StatusConfirmed
		res, err := s.List(ctx, Filter{Status: &confirmed})
		require.NoError(t, err)
		require.Equal(t, 1, res.Total)
		assert.Equal(t, joao.ID, res.Registrations[0].ID)
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		res, err := s.List(ctx, Filter{Search: "mArIa"})
		require.NoError(t, err)
		require.Equal(t, 1, res.Total)
		assert.Equal(t, maria.ID, res.Registrations[0].ID)
	})

	t.Run("search matches team id", func(t *testing.T) {
		res, err := s.List(ctx, Filter{Search: "6543"})
		require.NoError(t, err)
		require.Equal(t, 1, res.Total)
		assert.Equal(t, joao.ID, res.Registrations[0].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		res, err := s.List(ctx, Filter{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		require.Len(t, res.Registrations, 1)
		assert.Equal(t, maria.ID, res.Registrations[0].ID)
	})
}
