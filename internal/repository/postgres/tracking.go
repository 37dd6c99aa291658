package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fireregsco/crm/internal/domain"
)

// TrackingRepo implements sales.TrackingRepository against PostgreSQL. The
// ledger is append-only; there is no update or delete statement here on
// purpose.
type TrackingRepo struct{ db *sql.DB }

// NewTrackingRepo creates a Postgres-backed tracking repository.
func NewTrackingRepo(db *sql.DB) *TrackingRepo { return &TrackingRepo{db: db} }

func (r *TrackingRepo) Append(ctx context.Context, e *domain.StatusTracking) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sales_status_tracking
			(id, sale_id, status, notes, updated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.SaleID, e.Status, e.Notes, e.UpdatedBy, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append tracking: %w", err)
	}
	return nil
}

func (r *TrackingRepo) ListBySale(ctx context.Context, saleID string) ([]domain.StatusTracking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_id, status, COALESCE(notes,''), COALESCE(updated_by,''), created_at
		FROM sales_status_tracking
		WHERE sale_id = $1
		ORDER BY created_at ASC, id ASC
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list tracking: %w", err)
	}
	defer rows.Close()
	return scanTracking(rows)
}

// ListAllTracking returns the whole ledger ordered by created time. Used by
// the reporting engine.
func (r *TrackingRepo) ListAllTracking(ctx context.Context) ([]domain.StatusTracking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_id, status, COALESCE(notes,''), COALESCE(updated_by,''), created_at
		FROM sales_status_tracking
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list all tracking: %w", err)
	}
	defer rows.Close()
	return scanTracking(rows)
}

func scanTracking(rows *sql.Rows) ([]domain.StatusTracking, error) {
	var out []domain.StatusTracking
	for rows.Next() {
		var e domain.StatusTracking
		if err := rows.Scan(&e.ID, &e.SaleID, &e.Status, &e.Notes, &e.UpdatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tracking: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
