package reports

import (
	"context"

	"github.com/fireregsco/crm/internal/domain"
)

// DataSource supplies the full dataset the report is derived from.
type DataSource interface {
	// ListAllSales returns every sale.
	ListAllSales(ctx context.Context) ([]domain.Sale, error)

	// ListAllTracking returns every ledger entry ordered by created_at ASC,
	// insertion order breaking ties.
	ListAllTracking(ctx context.Context) ([]domain.StatusTracking, error)
}
