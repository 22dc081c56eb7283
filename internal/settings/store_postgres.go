package settings

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fundrace/pkg/platform/sentinel"
)

// settingsRowID pins the table to one row; upserts conflict on it.
const settingsRowID = "default-settings"

// PostgresStore persists the settings row in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed settings store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context) (*Settings, error) {
	query := `
		SELECT pricing_mode, ticket_price, price_per_team, registration_fee,
		       pricing_description, contact_phone, admin_email, org_name,
		       logo_url, logo_public_id, banners, banner_public_ids, updated_at
		FROM admin_settings WHERE id = $1
	`
	var out Settings
	var mode string
	err := s.db.QueryRowContext(ctx, query, settingsRowID).Scan(
		&mode, &out.TicketPrice, &out.PricePerTeam, &out.RegistrationFee,
		&out.PricingDescription, &out.ContactPhone, &out.AdminEmail, &out.OrgName,
		&out.LogoURL, &out.LogoPublicID,
		pq.Array(&out.Banners), pq.Array(&out.BannerPublicIDs),
		&out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	out.PricingMode = PricingMode(mode)
	return &out, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, settings *Settings) error {
	query := `
		INSERT INTO admin_settings (
			id, pricing_mode, ticket_price, price_per_team, registration_fee,
			pricing_description, contact_phone, admin_email, org_name,
			logo_url, logo_public_id, banners, banner_public_ids, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			pricing_mode = EXCLUDED.pricing_mode,
			ticket_price = EXCLUDED.ticket_price,
			price_per_team = EXCLUDED.price_per_team,
			registration_fee = EXCLUDED.registration_fee,
			pricing_description = EXCLUDED.pricing_description,
			contact_phone = EXCLUDED.contact_phone,
			admin_email = EXCLUDED.admin_email,
			org_name = EXCLUDED.org_name,
			logo_url = EXCLUDED.logo_url,
			logo_public_id = EXCLUDED.logo_public_id,
			banners = EXCLUDED.banners,
			banner_public_ids = EXCLUDED.banner_public_ids,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		settingsRowID, string(settings.PricingMode), settings.TicketPrice,
		settings.PricePerTeam, settings.RegistrationFee,
		settings.PricingDescription, settings.ContactPhone, settings.AdminEmail,
		settings.OrgName, settings.LogoURL, settings.LogoPublicID,
		textArray(settings.Banners), textArray(settings.BannerPublicIDs),
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// textArray binds a string slice as a non-null text[]. pq.Array turns a nil
// slice into SQL NULL, which the NOT NULL banner columns reject.
func textArray(values []string) interface {
	driver.Valuer
	sql.Scanner
} {
	if values == nil {
		values = []string{}
	}
	return pq.Array(values)
}
