// Package mailer sends the confirmation email over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mail "github.com/wneessen/go-mail"

	"fundrace/internal/notify"
	"fundrace/internal/platform/config"
)

// ErrNotConfigured is returned when SMTP credentials are absent. The worker
// logs and drops the job; the status transition already succeeded.
var ErrNotConfigured = errors.New("smtp not configured")

// SMTPMailer delivers confirmation emails through an SMTP relay.
type SMTPMailer struct {
	cfg    config.SMTP
	logger *slog.Logger
}

// New constructs an SMTP mailer from config.
func New(cfg config.SMTP, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send composes and delivers the confirmation email for the job.
func (m *SMTPMailer) Send(ctx context.Context, job notify.Job) error {
	if !m.cfg.Configured() {
		return ErrNotConfigured
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(job.Email); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject(job))
	msg.SetBodyString(mail.TypeTextPlain, Body(job))

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}

	m.logger.InfoContext(ctx, "confirmation email sent",
		"registration_id", job.RegistrationID,
	)
	return nil
}

func subject(job notify.Job) string {
	if job.TeamID != "" {
		return fmt.Sprintf("Team %s - Registration Confirmed", job.TeamID)
	}
	return "Registration Confirmed"
}

// Body renders the plain-text confirmation. Exported for tests; there is no
// HTML template layer.
func Body(job notify.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", job.ParticipantName)
	b.WriteString("Your registration has been confirmed!\n\n")

	if job.TeamID != "" {
		fmt.Fprintf(&b, "Team ID: %s\n", job.TeamID)
		fmt.Fprintf(&b, "Team captain: %s\n", job.ParticipantName)
		if job.TeammateName != "" {
			fmt.Fprintf(&b, "Teammate: %s\n", job.TeammateName)
		}
	}
	if len(job.TicketNumbers) > 0 {
		b.WriteString("Your ticket numbers:\n")
		for _, code := range job.TicketNumbers {
			fmt.Fprintf(&b, "  %s\n", code)
		}
	}
	fmt.Fprintf(&b, "Amount paid: %s\n\n", job.ActualAmount)

	if job.TeamID != "" {
		fmt.Fprintf(&b, "Your Team ID %s is required for event participation.\n", job.TeamID)
	}
	b.WriteString("Please keep this email safe and contact us with any questions.\n")
	return b.String()
}
