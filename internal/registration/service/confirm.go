package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fundrace/internal/allocator"
	"fundrace/internal/notify"
	"fundrace/internal/registration/models"
	"fundrace/internal/registration/store"
	"fundrace/internal/settings"
	dErrors "fundrace/pkg/domain-errors"
	pstrings "fundrace/pkg/platform/strings"
	"fundrace/pkg/requestcontext"
)

// EmailOutcome reports what happened to the confirmation email without
// affecting the status transition itself.
type EmailOutcome string

const (
	EmailQueued        EmailOutcome = "queued"
	EmailSkipped       EmailOutcome = "skipped_missing_fields"
	EmailQueueFailed   EmailOutcome = "queue_failed"
	EmailNotApplicable EmailOutcome = "not_applicable"
)

// StatusOverrides are the optional admin-supplied values accompanying a
// status change. Raw strings are validated here, not in the transport layer.
type StatusOverrides struct {
	ActualAmount    *string
	TicketsAssigned *int
	TicketNumbers   *string
}

// StatusResult is the persisted registration plus the email disposition.
type StatusResult struct {
	Registration  *models.Registration
	EmailOutcome  EmailOutcome
	MissingFields []string
}

// UpdateStatus transitions a registration to the given status.
//
// On confirmation the actual amount is resolved (override, then previously
// confirmed amount, then requested amount) and either a team id or a ticket
// allocation is derived according to the pricing mode. Any transition away
// from confirmed clears the actual amount and every allocation field in the
// same write. The confirmation email is queued only after the row is
// persisted and its failure never reverses the transition.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status, overrides StatusOverrides) (*StatusResult, error) {
	reg, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch registration")
	}

	now := requestcontext.Now(ctx)
	if status == models.StatusConfirmed {
		if err := s.applyConfirmation(ctx, reg, overrides, now); err != nil {
			return nil, err
		}
	} else {
		reg.ApplyUnconfirmed(status, now)
	}

	if err := s.store.Update(ctx, reg); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update registration status")
	}

	// Hand back the persisted row, not the in-memory mutation.
	updated, err := s.store.FindByID(ctx, reg.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reload registration")
	}

	s.metrics.IncStatusUpdate(string(status))
	s.logger.InfoContext(ctx, "registration status updated",
		slog.String("registration_id", id.String()),
		slog.String("status", string(status)),
		slog.String("request_id", requestcontext.RequestID(ctx)),
	)

	result := &StatusResult{Registration: updated, EmailOutcome: EmailNotApplicable}
	if updated.IsConfirmed() && len(updated.AllocatedCodes()) > 0 {
		result.EmailOutcome, result.MissingFields = s.queueConfirmationEmail(ctx, updated)
	}
	s.metrics.IncEmailOutcome(string(result.EmailOutcome))
	return result, nil
}

func (s *Service) applyConfirmation(ctx context.Context, reg *models.Registration, overrides StatusOverrides, now time.Time) error {
	var amountOverride *decimal.Decimal
	if overrides.ActualAmount != nil {
		parsed, err := parseAmountOverride(*overrides.ActualAmount)
		if err != nil {
			return err
		}
		amountOverride = parsed
	}
	actual := reg.ResolveActualAmount(amountOverride)

	pricing, err := s.pricing.Pricing(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pricing settings")
	}

	if pricing.Mode == settings.ModeTickets {
		count, codes, err := s.ticketAllocation(reg, actual, pricing.TicketPrice, overrides)
		if err != nil {
			return err
		}
		reg.ApplyTicketConfirmation(count, codes, actual, now)
		return nil
	}

	// Re-confirming keeps the already assigned team id.
	teamID := ""
	if reg.TeamID != nil {
		teamID = *reg.TeamID
	} else {
		teamID, err = s.teamIDs.Allocate(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate team id")
		}
	}
	reg.ApplyTeamConfirmation(teamID, actual, now)
	return nil
}

func (s *Service) ticketAllocation(reg *models.Registration, actual, price decimal.Decimal, overrides StatusOverrides) (int, []string, error) {
	count := 0
	if overrides.TicketsAssigned != nil {
		if *overrides.TicketsAssigned < 0 {
			return 0, nil, dErrors.New(dErrors.CodeValidation, "tickets_assigned must not be negative")
		}
		count = *overrides.TicketsAssigned
	} else {
		if price.LessThanOrEqual(decimal.Zero) {
			return 0, nil, dErrors.New(dErrors.CodeInternal, "ticket price is not configured")
		}
		count = int(actual.Div(price).Floor().IntPart())
	}

	if overrides.TicketNumbers != nil {
		// Admin-typed lists can repeat a code; a ticket is only issued once.
		return count, pstrings.DedupeAndTrim(pstrings.SplitList(*overrides.TicketNumbers)), nil
	}
	return count, allocator.TicketCodes(reg.ID.String(), count), nil
}

// queueConfirmationEmail hands the email job to the queue. Missing contact
// fields or a full queue downgrade to a reported outcome, never an error.
func (s *Service) queueConfirmationEmail(ctx context.Context, reg *models.Registration) (EmailOutcome, []string) {
	if missing := reg.MissingNotifyFields(); len(missing) > 0 {
		s.logger.WarnContext(ctx, "confirmation email skipped",
			slog.String("registration_id", reg.ID.String()),
			slog.Any("missing_fields", missing),
		)
		return EmailSkipped, missing
	}

	job := notify.Job{
		RegistrationID:  reg.ID.String(),
		Email:           reg.Email,
		ParticipantName: reg.ParticipantName,
		TeammateName:    reg.TeammateName,
		TicketNumbers:   reg.TicketNumbers,
		ActualAmount:    reg.ResolveActualAmount(nil).StringFixed(2),
	}
	if reg.TeamID != nil {
		job.TeamID = *reg.TeamID
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.ErrorContext(ctx, "failed to queue confirmation email",
			slog.String("registration_id", reg.ID.String()),
			slog.String("error", err.Error()),
		)
		return EmailQueueFailed, nil
	}
	return EmailQueued, nil
}
