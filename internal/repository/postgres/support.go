package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fireregsco/crm/internal/domain"
	"github.com/fireregsco/crm/internal/service/support"
)

// TicketRepo implements support.Repository against PostgreSQL.
type TicketRepo struct{ db *sql.DB }

// NewTicketRepo creates a Postgres-backed support ticket repository.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

func (r *TicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, COALESCE(subject,''), message, status, created_at, updated_at
		FROM support_tickets
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Email, &t.Subject, &t.Message, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, support.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepo) List(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	q := `
		SELECT id, name, email, COALESCE(subject,''), message, status, created_at, updated_at
		FROM support_tickets`
	args := []interface{}{}
	if status != "" {
		q += " WHERE status = $1"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var out []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Subject, &t.Message, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TicketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO support_tickets
			(id, name, email, subject, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.ID, t.Name, t.Email, t.Subject, t.Message, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *TicketRepo) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE support_tickets SET status = $2, updated_at = $3 WHERE id = $1
	`, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	return checkAffected(res, support.ErrNotFound)
}
