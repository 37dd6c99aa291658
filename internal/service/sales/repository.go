package sales

import (
	"context"
	"time"

	"github.com/fireregsco/crm/internal/domain"
)

// Repository defines the data access contract for sales records.
// Implementations must be safe for concurrent use.
type Repository interface {
	// GetByID returns a single sale. Returns ErrNotFound if it doesn't exist.
	GetByID(ctx context.Context, id string) (*domain.Sale, error)

	// GetByEmail returns the most recently updated sale for the address
	// (case-insensitive). Returns ErrNotFound if none exists.
	GetByEmail(ctx context.Context, email string) (*domain.Sale, error)

	// List returns sales matching the filter, ordered by created_at DESC.
	List(ctx context.Context, f ListFilter) ([]domain.Sale, error)

	// Create inserts a new sale.
	Create(ctx context.Context, sale *domain.Sale) error

	// Update rewrites the mutable fields of an existing sale.
	Update(ctx context.Context, sale *domain.Sale) error

	// UpdateStatus sets status and updated_at on a sale.
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error

	// Count returns the total number of sales.
	Count(ctx context.Context) (int, error)
}

// TrackingRepository defines the data access contract for the append-only
// status ledger. There is deliberately no update or delete.
type TrackingRepository interface {
	// Append inserts one ledger entry.
	Append(ctx context.Context, entry *domain.StatusTracking) error

	// ListBySale returns a sale's entries ordered by created_at ASC,
	// insertion order breaking ties.
	ListBySale(ctx context.Context, saleID string) ([]domain.StatusTracking, error)
}

// ListFilter controls filtering for sales lists.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// Notifier sends the outbound emails triggered by a new inquiry. Sends are
// best-effort; implementations should not retry forever.
type Notifier interface {
	NotifyNewLead(ctx context.Context, sale *domain.Sale) error
}
