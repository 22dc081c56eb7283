// Package service implements the registration workflows: applicant
// submission, admin listing, and the confirm/reject status transitions with
// their side effects (team id or ticket allocation, confirmation email).
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fundrace/internal/allocator"
	"fundrace/internal/notify"
	"fundrace/internal/registration/metrics"
	"fundrace/internal/registration/models"
	"fundrace/internal/registration/store"
	"fundrace/internal/settings"
	dErrors "fundrace/pkg/domain-errors"
	"fundrace/pkg/requestcontext"
)

// TeamIDs allocates unique six-digit team identifiers.
type TeamIDs interface {
	Allocate(ctx context.Context) (string, error)
	Reset(ctx context.Context) error
}

// PricingSource supplies the confirmation pricing configuration.
// *settings.Service satisfies it.
type PricingSource interface {
	Pricing(ctx context.Context) (settings.Pricing, error)
}

// ScreenshotRemover deletes a stored payment screenshot. Removal is best
// effort; registration deletion never fails because of it.
type ScreenshotRemover interface {
	Delete(ctx context.Context, publicID string) error
}

type Service struct {
	store       store.Store
	teamIDs     TeamIDs
	pricing     PricingSource
	queue       notify.Queue
	screenshots ScreenshotRemover
	logger      *slog.Logger
	metrics     *metrics.Metrics
	newID       func() uuid.UUID
}

type Option func(*Service)

// WithMetrics attaches domain counters. Without it the service records
// nothing.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithIDFunc overrides registration id generation, for deterministic tests.
func WithIDFunc(f func() uuid.UUID) Option {
	return func(s *Service) { s.newID = f }
}

func New(
	st store.Store,
	teamIDs TeamIDs,
	pricing PricingSource,
	queue notify.Queue,
	screenshots ScreenshotRemover,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		store:       st,
		teamIDs:     teamIDs,
		pricing:     pricing,
		queue:       queue,
		screenshots: screenshots,
		logger:      logger,
		newID:       uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new pending registration.
func (s *Service) Create(ctx context.Context, in models.NewRegistrationInput) (*models.Registration, error) {
	reg, err := models.NewRegistration(s.newID(), in, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, reg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create registration")
	}

	s.metrics.IncCreated()
	s.logger.InfoContext(ctx, "registration created",
		slog.String("registration_id", reg.ID.String()),
		slog.String("zone", reg.Zone),
		slog.String("request_id", requestcontext.RequestID(ctx)),
	)
	return reg, nil
}

// Get fetches a single registration.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	reg, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch registration")
	}
	return reg, nil
}

// List returns registrations matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter store.Filter) (*store.ListResult, error) {
	result, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return result, nil
}

// Delete removes a registration and best-effort deletes its stored payment
// screenshot. A screenshot that cannot be removed is logged and skipped.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	reg, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch registration")
	}

	if reg.PaymentScreenshotID != "" && s.screenshots != nil {
		if err := s.screenshots.Delete(ctx, reg.PaymentScreenshotID); err != nil {
			s.logger.WarnContext(ctx, "failed to delete payment screenshot",
				slog.String("registration_id", id.String()),
				slog.String("screenshot_id", reg.PaymentScreenshotID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete registration")
	}

	s.logger.InfoContext(ctx, "registration deleted",
		slog.String("registration_id", id.String()),
		slog.String("request_id", requestcontext.RequestID(ctx)),
	)
	return nil
}

// ResetTeamIDs clears the issued team id set so identifiers can be reused in
// a fresh event cycle. Existing registrations keep their assigned values.
func (s *Service) ResetTeamIDs(ctx context.Context) error {
	if err := s.teamIDs.Reset(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset team id pool")
	}
	s.logger.InfoContext(ctx, "team id pool reset",
		slog.String("request_id", requestcontext.RequestID(ctx)),
	)
	return nil
}

// parseAmountOverride validates an admin-supplied actual amount.
func parseAmountOverride(raw string) (*decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, dErrors.New(dErrors.CodeValidation, "actual_amount must be a positive number")
	}
	return &amount, nil
}

var _ TeamIDs = (*allocator.Allocator)(nil)
