// Package paymentlink manages the payment destinations applicants choose
// from when submitting a registration. Admins maintain the full set; the
// public form only sees active links.
package paymentlink

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "fundrace/pkg/domain-errors"
	"fundrace/pkg/platform/sentinel"
	"fundrace/pkg/requestcontext"
)

// PaymentLink is one choosable payment destination.
type PaymentLink struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	URL       string    `json:"url"`
	Active    bool      `json:"active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists payment links.
type Store interface {
	Create(ctx context.Context, link *PaymentLink) error
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentLink, error)
	Update(ctx context.Context, link *PaymentLink) error
	List(ctx context.Context, activeOnly bool) ([]*PaymentLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateInput carries the admin-supplied fields for a new link.
type CreateInput struct {
	Label     string
	URL       string
	Active    *bool
	SortOrder int
}

// UpdateInput carries optional fields; nil means keep the current value.
type UpdateInput struct {
	Label     *string
	URL       *string
	Active    *bool
	SortOrder *int
}

type Service struct {
	store  Store
	logger *slog.Logger
	newID  func() uuid.UUID
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, newID: uuid.New}
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", dErrors.New(dErrors.CodeValidation, "url must be an absolute http(s) URL")
	}
	return raw, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*PaymentLink, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "label is required")
	}
	linkURL, err := validateURL(in.URL)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	link := &PaymentLink{
		ID:        s.newID(),
		Label:     label,
		URL:       linkURL,
		Active:    true,
		SortOrder: in.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Active != nil {
		link.Active = *in.Active
	}

	if err := s.store.Create(ctx, link); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create payment link")
	}

	s.logger.InfoContext(ctx, "payment link created",
		slog.String("payment_link_id", link.ID.String()),
		slog.String("request_id", requestcontext.RequestID(ctx)),
	)
	return link, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*PaymentLink, error) {
	link, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "payment link not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch payment link")
	}

	if in.Label != nil {
		label := strings.TrimSpace(*in.Label)
		if label == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "label must not be empty")
		}
		link.Label = label
	}
	if in.URL != nil {
		linkURL, err := validateURL(*in.URL)
		if err != nil {
			return nil, err
		}
		link.URL = linkURL
	}
	if in.Active != nil {
		link.Active = *in.Active
	}
	if in.SortOrder != nil {
		link.SortOrder = *in.SortOrder
	}
	link.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, link); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "payment link not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update payment link")
	}
	return link, nil
}

// List returns links ordered by sort order then label. activeOnly is what
// the public registration form uses.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*PaymentLink, error) {
	links, err := s.store.List(ctx, activeOnly)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list payment links")
	}
	return links, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "payment link not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete payment link")
	}
	s.logger.InfoContext(ctx, "payment link deleted",
		slog.String("payment_link_id", id.String()),
		slog.String("request_id", requestcontext.RequestID(ctx)),
	)
	return nil
}
