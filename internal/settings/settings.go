// Package settings holds the single-row administrative configuration:
// pricing for confirmations plus organisation branding and contact details.
package settings

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dErrors "fundrace/pkg/domain-errors"
	"fundrace/pkg/platform/sentinel"
	"fundrace/pkg/requestcontext"
)

// PricingMode selects the confirmation variant: one team identifier per
// registration, or a ticket count priced per ticket.
type PricingMode string

const (
	ModeTeam    PricingMode = "team"
	ModeTickets PricingMode = "tickets"
)

// ParsePricingMode validates a raw mode value.
func ParsePricingMode(raw string) (PricingMode, error) {
	switch PricingMode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeTeam:
		return ModeTeam, nil
	case ModeTickets:
		return ModeTickets, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "pricing_mode must be team or tickets")
	}
}

// Settings is the administrative configuration row.
type Settings struct {
	PricingMode        PricingMode     `json:"pricing_mode"`
	TicketPrice        decimal.Decimal `json:"ticket_price"`
	PricePerTeam       decimal.Decimal `json:"price_per_team"`
	RegistrationFee    decimal.Decimal `json:"registration_fee"`
	PricingDescription string          `json:"pricing_description"`
	ContactPhone       string          `json:"contact_phone"`
	AdminEmail         string          `json:"admin_email"`
	OrgName            string          `json:"org_name"`
	LogoURL            string          `json:"logo_url,omitempty"`
	LogoPublicID       string          `json:"logo_public_id,omitempty"`
	Banners            []string        `json:"banners"`
	BannerPublicIDs    []string        `json:"banner_public_ids"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Clone deep-copies the settings row so callers cannot alias the stored
// banner slices.
func (s *Settings) Clone() *Settings {
	cp := *s
	cp.Banners = append([]string(nil), s.Banners...)
	cp.BannerPublicIDs = append([]string(nil), s.BannerPublicIDs...)
	return &cp
}

// Defaults are served until an administrator saves settings. The 2.00 ticket
// price is the documented fallback the confirmation workflow relies on.
func Defaults() Settings {
	return Settings{
		PricingMode:        ModeTeam,
		TicketPrice:        decimal.NewFromFloat(2.00),
		PricePerTeam:       decimal.NewFromFloat(20.00),
		RegistrationFee:    decimal.NewFromFloat(20.00),
		PricingDescription: "1 team = 2 persons = 20.00 (10.00 per person)",
		OrgName:            "Your Organization",
		Banners:            []string{},
		BannerPublicIDs:    []string{},
	}
}

// Pricing is the slice of settings the confirmation workflow reads.
type Pricing struct {
	Mode        PricingMode
	TicketPrice decimal.Decimal
}

// Store persists the settings row.
type Store interface {
	Get(ctx context.Context) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error
}

// Service serves and updates settings, falling back to defaults when no row
// has been saved yet.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs the settings service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Get returns the stored settings or the defaults.
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	stored, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			defaults := Defaults()
			return &defaults, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	return stored, nil
}

// Pricing resolves the pricing slice for the confirmation workflow. Absent
// configuration yields the documented defaults.
func (s *Service) Pricing(ctx context.Context) (Pricing, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return Pricing{}, err
	}
	return Pricing{Mode: settings.PricingMode, TicketPrice: settings.TicketPrice}, nil
}

// SetLogo records a freshly uploaded logo and returns the previous logo's
// public id so the caller can delete the superseded image.
func (s *Service) SetLogo(ctx context.Context, url, publicID string) (*Settings, string, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	previous := current.LogoPublicID
	current.LogoURL = url
	current.LogoPublicID = publicID
	current.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Upsert(ctx, current); err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
	}
	return current, previous, nil
}

// AddBanner appends an uploaded banner to the rotation.
func (s *Service) AddBanner(ctx context.Context, url, publicID string) (*Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	current.Banners = append(current.Banners, url)
	current.BannerPublicIDs = append(current.BannerPublicIDs, publicID)
	current.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Upsert(ctx, current); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
	}
	return current, nil
}

// RemoveBanner drops the banner identified by its public id.
func (s *Service) RemoveBanner(ctx context.Context, publicID string) (*Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, id := range current.BannerPublicIDs {
		if id == publicID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "banner not found")
	}
	current.Banners = append(current.Banners[:idx], current.Banners[idx+1:]...)
	current.BannerPublicIDs = append(current.BannerPublicIDs[:idx], current.BannerPublicIDs[idx+1:]...)
	current.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Upsert(ctx, current); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
	}
	return current, nil
}

// UpdateInput carries partial settings changes; nil fields keep the current
// value.
type UpdateInput struct {
	PricingMode        *string
	TicketPrice        *decimal.Decimal
	PricePerTeam       *decimal.Decimal
	RegistrationFee    *decimal.Decimal
	PricingDescription *string
	ContactPhone       *string
	AdminEmail         *string
	OrgName            *string
	LogoURL            *string
}

// Update applies in onto the current settings and persists the result.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if in.PricingMode != nil {
		mode, err := ParsePricingMode(*in.PricingMode)
		if err != nil {
			return nil, err
		}
		current.PricingMode = mode
	}
	for _, price := range []struct {
		name  string
		value *decimal.Decimal
		dst   *decimal.Decimal
	}{
		{"ticket_price", in.TicketPrice, &current.TicketPrice},
		{"price_per_team", in.PricePerTeam, &current.PricePerTeam},
		{"registration_fee", in.RegistrationFee, &current.RegistrationFee},
	} {
		if price.value == nil {
			continue
		}
		if price.value.IsNegative() {
			return nil, dErrors.New(dErrors.CodeValidation, price.name+" cannot be negative")
		}
		*price.dst = *price.value
	}
	if in.PricingDescription != nil {
		current.PricingDescription = strings.TrimSpace(*in.PricingDescription)
	}
	if in.ContactPhone != nil {
		current.ContactPhone = strings.TrimSpace(*in.ContactPhone)
	}
	if in.AdminEmail != nil {
		current.AdminEmail = strings.TrimSpace(*in.AdminEmail)
	}
	if in.OrgName != nil {
		current.OrgName = strings.TrimSpace(*in.OrgName)
	}
	if in.LogoURL != nil {
		current.LogoURL = strings.TrimSpace(*in.LogoURL)
	}
	current.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Upsert(ctx, current); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
	}
	return current, nil
}
