package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fireregsco/crm/internal/domain"
	"github.com/fireregsco/crm/internal/service/sales"
)

// SaleRepo implements sales.Repository against PostgreSQL.
type SaleRepo struct{ db *sql.DB }

// NewSaleRepo creates a Postgres-backed sale repository.
func NewSaleRepo(db *sql.DB) *SaleRepo { return &SaleRepo{db: db} }

const saleColumns = `id, name, email, phone, COALESCE(property_type,''), COALESCE(door_count,''),
	       COALESCE(message,''), status, preferred_date, created_at, updated_at`

func scanSale(row interface{ Scan(...interface{}) error }) (*domain.Sale, error) {
	s := &domain.Sale{}
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.Phone, &s.PropertyType, &s.DoorCount,
		&s.Message, &s.Status, &s.PreferredDate, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	s, err := scanSale(r.db.QueryRowContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, sales.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetByEmail returns the most recently updated record for the address.
// Matching is case-insensitive; older duplicates are ignored.
func (r *SaleRepo) GetByEmail(ctx context.Context, email string) (*domain.Sale, error) {
	s, err := scanSale(r.db.QueryRowContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE LOWER(email) = LOWER($1)
		ORDER BY updated_at DESC
		LIMIT 1
	`, strings.TrimSpace(email)))
	if err == sql.ErrNoRows {
		return nil, sales.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sale by email: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) List(ctx context.Context, f sales.ListFilter) ([]domain.Sale, error) {
	q := `
		SELECT ` + saleColumns + `
		FROM sales`
	args := []interface{}{}
	idx := 1

	if f.Status != "" {
		q += fmt.Sprintf(" WHERE status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// ListAll returns every sale. Used by the reporting engine.
func (r *SaleRepo) ListAllSales(ctx context.Context) ([]domain.Sale, error) {
	return r.List(ctx, sales.ListFilter{})
}

func (r *SaleRepo) Create(ctx context.Context, s *domain.Sale) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sales
			(id, name, email, phone, property_type, door_count, message,
			 status, preferred_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.ID, s.Name, s.Email, s.Phone, s.PropertyType, s.DoorCount, s.Message,
		s.Status, s.PreferredDate, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) Update(ctx context.Context, s *domain.Sale) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sales
		SET name = $2, email = $3, phone = $4, property_type = $5,
		    door_count = $6, message = $7, status = $8, preferred_date = $9,
		    updated_at = $10
		WHERE id = $1
	`, s.ID, s.Name, s.Email, s.Phone, s.PropertyType, s.DoorCount, s.Message,
		s.Status, s.PreferredDate, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return checkAffected(res, sales.ErrNotFound)
}

func (r *SaleRepo) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sales SET status = $2, updated_at = $3 WHERE id = $1
	`, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return checkAffected(res, sales.ErrNotFound)
}

func (r *SaleRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
