package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fundrace/internal/registration/models"
)

// PostgresStore persists registrations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registration store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const registrationColumns = `
	id, participant_name, teammate_name, email, address,
	contact_number_1, contact_number_2, whatsapp_number, zone, diocese,
	how_known, other_how_known, previous_participation,
	amount, actual_amount, status, team_id, tickets_assigned, ticket_numbers,
	payment_screenshot_url, payment_screenshot_id, payment_link_used,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err := s.db.ExecContext(ctx, query,
		reg.ID, reg.ParticipantName, reg.TeammateName, reg.Email, reg.Address,
		reg.ContactNumber1, reg.ContactNumber2, reg.WhatsappNumber, reg.Zone, reg.Diocese,
		reg.HowKnown, reg.OtherHowKnown, reg.PreviousParticipation,
		reg.Amount, nullDecimal(reg.ActualAmount), string(reg.Status),
		nullString(reg.TeamID), nullInt(reg.TicketsAssigned), textArray(reg.TicketNumbers),
		reg.PaymentScreenshotURL, reg.PaymentScreenshotID, reg.PaymentLinkUsed,
		reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return reg, nil
}

// Update replaces the full row in a single statement, so a status change and
// its derived allocation fields are atomic. Last write wins on concurrent
// updates.
func (s *PostgresStore) Update(ctx context.Context, reg *models.Registration) error {
	query := `
		UPDATE registrations SET
			participant_name = $2, teammate_name = $3, email = $4, address = $5,
			contact_number_1 = $6, contact_number_2 = $7, whatsapp_number = $8,
			zone = $9, diocese = $10, how_known = $11, other_how_known = $12,
			previous_participation = $13, actual_amount = $14, status = $15,
			team_id = $16, tickets_assigned = $17, ticket_numbers = $18,
			payment_screenshot_url = $19, payment_screenshot_id = $20,
			updated_at = $21
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		reg.ID, reg.ParticipantName, reg.TeammateName, reg.Email, reg.Address,
		reg.ContactNumber1, reg.ContactNumber2, reg.WhatsappNumber,
		reg.Zone, reg.Diocese, reg.HowKnown, reg.OtherHowKnown,
		reg.PreviousParticipation, nullDecimal(reg.ActualAmount), string(reg.Status),
		nullString(reg.TeamID), nullInt(reg.TicketsAssigned), textArray(reg.TicketNumbers),
		reg.PaymentScreenshotURL, reg.PaymentScreenshotID,
		reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) (*ListResult, error) {
	where, args := buildFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM registrations` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := `SELECT ` + registrationColumns + ` FROM registrations` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return &ListResult{Registrations: regs, Total: total}, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func buildFilter(filter Filter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := "$" + strconv.Itoa(len(args))
		clauses = append(clauses,
			"(participant_name ILIKE "+p+
				" OR teammate_name ILIKE "+p+
				" OR email ILIKE "+p+
				" OR contact_number_1 ILIKE "+p+
				" OR team_id ILIKE "+p+")")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*models.Registration, error) {
	var reg models.Registration
	var actual decimal.NullDecimal
	var teamID sql.NullString
	var tickets sql.NullInt64
	var status string

	err := row.Scan(
		&reg.ID, &reg.ParticipantName, &reg.TeammateName, &reg.Email, &reg.Address,
		&reg.ContactNumber1, &reg.ContactNumber2, &reg.WhatsappNumber, &reg.Zone, &reg.Diocese,
		&reg.HowKnown, &reg.OtherHowKnown, &reg.PreviousParticipation,
		&reg.Amount, &actual, &status, &teamID, &tickets, pq.Array(&reg.TicketNumbers),
		&reg.PaymentScreenshotURL, &reg.PaymentScreenshotID, &reg.PaymentLinkUsed,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	reg.Status = models.Status(status)
	if actual.Valid {
		reg.ActualAmount = &actual.Decimal
	}
	if teamID.Valid {
		reg.TeamID = &teamID.String
	}
	if tickets.Valid {
		count := int(tickets.Int64)
		reg.TicketsAssigned = &count
	}
	return &reg, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

// textArray binds a string slice as a non-null text[]. pq.Array turns a nil
// slice into SQL NULL, which the NOT NULL ticket_numbers column rejects;
// pending registrations and team-mode confirmations carry a nil slice.
func textArray(values []string) interface {
	driver.Valuer
	sql.Scanner
} {
	if values == nil {
		values = []string{}
	}
	return pq.Array(values)
}
