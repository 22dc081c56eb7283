//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"fundrace/internal/registration/models"
	"fundrace/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T(), "../../../db/migrations")
	s.store = NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "registrations"))
}

func (s *PostgresStoreSuite) newRegistration(name string, createdAt time.Time) *models.Registration {
	reg, err := models.NewRegistration(uuid.New(), models.NewRegistrationInput{
		ParticipantName:      name,
		TeammateName:         "Teammate",
		Email:                name + "@example.com",
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
	s.Require().NoError(err)
	return reg
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	reg := s.newRegistration("maria", time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.Create(ctx, reg))

	found, err := s.store.FindByID(ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(reg.ParticipantName, found.ParticipantName)
	s.Equal(models.StatusPending, found.Status)
	s.Nil(found.ActualAmount)
	s.Nil(found.TeamID)
	s.Nil(found.TicketsAssigned)
	s.Empty(found.TicketNumbers)
	s.True(reg.Amount.Equal(found.Amount))
}

func (s *PostgresStoreSuite) TestFindUnknownID() {
	_, err := s.store.FindByID(context.Background(), uuid.New())
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateRoundTripsAllocation() {
	ctx := context.Background()
	reg := s.newRegistration("maria", time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.Create(ctx, reg))

	actual := decimal.NewFromFloat(20)
	reg.ApplyTicketConfirmation(10, []string{"TICKET-AB-1", "TICKET-AB-2"}, actual, time.Now().UTC())
	s.Require().NoError(s.store.Update(ctx, reg))

	found, err := s.store.FindByID(ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusConfirmed, found.Status)
	s.Require().NotNil(found.TicketsAssigned)
	s.Equal(10, *found.TicketsAssigned)
	s.Equal([]string{"TICKET-AB-1", "TICKET-AB-2"}, found.TicketNumbers)
	s.Require().NotNil(found.ActualAmount)
	s.True(actual.Equal(*found.ActualAmount))

	// Transition away from confirmed clears everything in one write.
	found.ApplyUnconfirmed(models.StatusRejected, time.Now().UTC())
	s.Require().NoError(s.store.Update(ctx, found))

	cleared, err := s.store.FindByID(ctx, reg.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, cleared.Status)
	s.Nil(cleared.ActualAmount)
	s.Nil(cleared.TeamID)
	s.Nil(cleared.TicketsAssigned)
	s.Empty(cleared.TicketNumbers)
}

func (s *PostgresStoreSuite) TestListSearchAndStatus() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	maria := s.newRegistration("maria", base.Add(-time.Hour))
	joao := s.newRegistration("joao", base)
	teamID := "654321"
	joao.Status = models.StatusConfirmed
	joao.TeamID = &teamID

	s.Require().NoError(s.store.Create(ctx, maria))
	s.Require().NoError(s.store.Create(ctx, joao))

	res, err := s.store.List(ctx, Filter{Search: "MARIA"})
	s.Require().NoError(err)
	s.Equal(1, res.Total)

	confirmed := models.StatusConfirmed
	res, err = s.store.List(ctx, Filter{Status: &confirmed})
	s.Require().NoError(err)
	s.Require().Equal(1, res.Total)
	s.Equal(joao.ID, res.Registrations[0].ID)

	res, err = s.store.List(ctx, Filter{Search: "6543"})
	s.Require().NoError(err)
	s.Equal(1, res.Total)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	reg := s.newRegistration("maria", time.Now().UTC())
	s.Require().NoError(s.store.Create(ctx, reg))
	s.Require().NoError(s.store.Delete(ctx, reg.ID))
	s.Require().ErrorIs(s.store.Delete(ctx, reg.ID), ErrNotFound)
}
