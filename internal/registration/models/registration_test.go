package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fundrace/pkg/domain-errors"
)

func validInput() NewRegistrationInput {
	return NewRegistrationInput{
		ParticipantName:      "Maria Silva",
		TeammateName:         "Ana Costa",
		Email:                "Maria@Example.com",
		Address:              "Rua Alta 12",
		ContactNumber1:       "+351911111111",
		WhatsappNumber:       "+351911111111",
		Zone:                 "North",
		Diocese:              "Porto",
		HowKnown:             "parish",
		Amount:               decimal.NewFromFloat(20),
		PaymentScreenshotURL: "https://img.example/s.png",
		PaymentLinkUsed:      "mbway",
	}
}

func TestNewRegistration(t *testing.T) {
	now := time.Now()
	reg, err := NewRegistration(uuid.New(), validInput(), now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, reg.Status)
	assert.Equal(t, "maria@example.com", reg.Email, "email is lowercased")
	assert.Nil(t, reg.ActualAmount)
	assert.Nil(t, reg.TeamID)
	assert.Nil(t, reg.TicketsAssigned)
	assert.Empty(t, reg.TicketNumbers)
}

func TestNewRegistrationRequiredFields(t *testing.T) {
	in := validInput()
	in.ParticipantName = "   "
	_, err := NewRegistration(uuid.New(), in, time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNewRegistrationRejectsNonPositiveAmount(t *testing.T) {
	in := validInput()
	in.Amount = decimal.Zero
	_, err := NewRegistration(uuid.New(), in, time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", " Confirmed ", "REJECTED"} {
		_, err := ParseStatus(raw)
		assert.NoError(t, err, raw)
	}
	_, err := ParseStatus("approved")
	assert.Error(t, err)
}

func TestResolveActualAmountPrecedence(t *testing.T) {
	reg := &Registration{Amount: decimal.NewFromFloat(20)}

	// No override, nothing confirmed yet: requested amount.
	assert.True(t, decimal.NewFromFloat(20).Equal(reg.ResolveActualAmount(nil)))

	// Previously confirmed amount survives re-confirmation.
	prior := decimal.NewFromFloat(15)
	reg.ActualAmount = &prior
	assert.True(t, prior.Equal(reg.ResolveActualAmount(nil)))

	// Explicit override wins over both.
	override := decimal.NewFromFloat(30)
	assert.True(t, override.Equal(reg.ResolveActualAmount(&override)))
}

func TestApplyUnconfirmedClearsAllocation(t *testing.T) {
	now := time.Now()
	reg, err := NewRegistration(uuid.New(), validInput(), now)
	require.NoError(t, err)

	reg.ApplyTicketConfirmation(10, []string{"TICKET-X-1"}, decimal.NewFromFloat(20), now)
	require.True(t, reg.IsConfirmed())

	reg.ApplyUnconfirmed(StatusRejected, now)
	assert.Equal(t, StatusRejected, reg.Status)
	assert.Nil(t, reg.ActualAmount)
	assert.Nil(t, reg.TeamID)
	assert.Nil(t, reg.TicketsAssigned)
	assert.Nil(t, reg.TicketNumbers)
}

func TestApplyTeamConfirmation(t *testing.T) {
	now := time.Now()
	reg, err := NewRegistration(uuid.New(), validInput(), now)
	require.NoError(t, err)

	reg.ApplyTeamConfirmation("123456", decimal.NewFromFloat(20), now)
	require.NotNil(t, reg.TeamID)
	assert.Equal(t, "123456", *reg.TeamID)
	assert.Nil(t, reg.TicketsAssigned)
	assert.Equal(t, []string{"123456"}, reg.AllocatedCodes())
}

func TestMissingNotifyFields(t *testing.T) {
	reg := &Registration{Email: "a@b.c", ParticipantName: "Maria"}
	assert.Empty(t, reg.MissingNotifyFields())

	reg.Email = ""
	reg.ParticipantName = " "
	assert.Equal(t, []string{"email", "participant_name"}, reg.MissingNotifyFields())
}

func TestCloneIsDeep(t *testing.T) {
	now := time.Now()
	reg, err := NewRegistration(uuid.New(), validInput(), now)
	require.NoError(t, err)
	reg.ApplyTicketConfirmation(2, []string{"A", "B"}, decimal.NewFromFloat(4), now)

	cp := reg.Clone()
	cp.TicketNumbers[0] = "mutated"
	*cp.TicketsAssigned = 99

	assert.Equal(t, "A", reg.TicketNumbers[0])
	assert.Equal(t, 2, *reg.TicketsAssigned)
}
