package mailer

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"fundrace/internal/notify"
	"fundrace/internal/platform/config"
)

func TestSendWithoutConfiguration(t *testing.T) {
	m := New(config.SMTP{}, slog.Default())
	err := m.Send(context.Background(), notify.Job{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestBodyTeamVariant(t *testing.T) {
	body := Body(notify.Job{
		ParticipantName: "Maria Silva",
		TeammateName:    "Ana Costa",
		TeamID:          "123456",
		ActualAmount:    "20.00",
	})

	assert.Contains(t, body, "Dear Maria Silva")
	assert.Contains(t, body, "Team ID: 123456")
	assert.Contains(t, body, "Teammate: Ana Costa")
	assert.Contains(t, body, "Amount paid: 20.00")
	assert.NotContains(t, body, "ticket numbers")
}

func TestBodyTicketVariant(t *testing.T) {
	body := Body(notify.Job{
		ParticipantName: "Maria Silva",
		TicketNumbers:   []string{"TICKET-AB-1", "TICKET-AB-2"},
		ActualAmount:    "4.00",
	})

	assert.Contains(t, body, "TICKET-AB-1")
	assert.Contains(t, body, "TICKET-AB-2")
	assert.NotContains(t, body, "Team ID")
}
