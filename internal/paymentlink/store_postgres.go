package paymentlink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"fundrace/pkg/platform/sentinel"
)

// PostgresStore persists payment links in the payment_links table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const paymentLinkColumns = `id, label, url, active, sort_order, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, link *PaymentLink) error {
	query := `
		INSERT INTO payment_links (` + paymentLinkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, query,
		link.ID, link.Label, link.URL, link.Active, link.SortOrder,
		link.CreatedAt, link.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment link: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*PaymentLink, error) {
	query := `SELECT ` + paymentLinkColumns + ` FROM payment_links WHERE id = $1`
	link, err := scanPaymentLink(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select payment link: %w", err)
	}
	return link, nil
}

func (s *PostgresStore) Update(ctx context.Context, link *PaymentLink) error {
	query := `
		UPDATE payment_links
		SET label = $2, url = $3, active = $4, sort_order = $5, updated_at = $6
		WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query,
		link.ID, link.Label, link.URL, link.Active, link.SortOrder, link.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update payment link: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, activeOnly bool) ([]*PaymentLink, error) {
	query := `SELECT ` + paymentLinkColumns + ` FROM payment_links`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY sort_order, label`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list payment links: %w", err)
	}
	defer rows.Close()

	var links []*PaymentLink
	for rows.Next() {
		link, err := scanPaymentLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payment links: %w", err)
	}
	return links, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM payment_links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete payment link: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaymentLink(row rowScanner) (*PaymentLink, error) {
	var link PaymentLink
	err := row.Scan(
		&link.ID, &link.Label, &link.URL, &link.Active, &link.SortOrder,
		&link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
