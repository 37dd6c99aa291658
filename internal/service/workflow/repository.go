package workflow

import (
	"context"

	"github.com/fireregsco/crm/internal/domain"
)

// Repository defines the data access contract for the persisted workflow.
// Implementations must be safe for concurrent use.
type Repository interface {
	// List returns all configured statuses ordered by display order.
	List(ctx context.Context) ([]domain.StatusInfo, error)
}
