package support

import (
	"context"

	"github.com/fireregsco/crm/internal/domain"
)

// Repository defines the data access contract for support tickets.
type Repository interface {
	// GetByID returns a single ticket. Returns ErrNotFound if it doesn't exist.
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)

	// List returns tickets ordered by created_at DESC, optionally filtered
	// by status ("" means all).
	List(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error)

	// Create inserts a new ticket.
	Create(ctx context.Context, ticket *domain.Ticket) error

	// UpdateStatus sets status and updated_at on a ticket.
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
}
