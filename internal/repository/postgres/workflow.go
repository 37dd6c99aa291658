package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fireregsco/crm/internal/domain"
)

// WorkflowRepo implements workflow.Repository against PostgreSQL.
type WorkflowRepo struct{ db *sql.DB }

// NewWorkflowRepo creates a Postgres-backed workflow repository.
func NewWorkflowRepo(db *sql.DB) *WorkflowRepo { return &WorkflowRepo{db: db} }

func (r *WorkflowRepo) List(ctx context.Context) ([]domain.StatusInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COALESCE(description,''), display_order, next_statuses
		FROM sales_statuses
		ORDER BY display_order ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()

	var out []domain.StatusInfo
	for rows.Next() {
		var st domain.StatusInfo
		var next pq.StringArray
		if err := rows.Scan(&st.Name, &st.Description, &st.Order, &next); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		st.NextStatuses = []string(next)
		if st.NextStatuses == nil {
			st.NextStatuses = []string{}
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
