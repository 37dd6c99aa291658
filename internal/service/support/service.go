package support

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fireregsco/crm/internal/domain"
	"github.com/fireregsco/crm/internal/pkg/logger"
)

// Service implements support ticket operations.
type Service struct {
	tickets Repository

	now func() time.Time
}

// NewService creates a support service.
func NewService(tickets Repository) *Service {
	return &Service{tickets: tickets, now: time.Now}
}

// CreateInput holds the fields for a new support ticket.
type CreateInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Create validates and persists a new ticket. New tickets always start open.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}

	now := s.now().UTC()
	ticket := &domain.Ticket{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Subject:   strings.TrimSpace(input.Subject),
		Message:   input.Message,
		Status:    domain.TicketOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	logger.Info("support ticket created", "ticket_id", ticket.ID, "email", ticket.Email)
	return ticket, nil
}

// GetByID returns a single ticket.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	return s.tickets.GetByID(ctx, id)
}

// List returns tickets, optionally filtered by status.
func (s *Service) List(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	if status != "" && !domain.ValidTicketStatus(status) {
		return nil, fmt.Errorf("%w: unknown ticket status %q", ErrValidation, status)
	}
	return s.tickets.List(ctx, status)
}

// UpdateStatus moves a ticket to a new lifecycle state.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	if !domain.ValidTicketStatus(status) {
		return nil, fmt.Errorf("%w: unknown ticket status %q", ErrValidation, status)
	}

	if _, err := s.tickets.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.tickets.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update ticket status: %w", err)
	}

	logger.Info("support ticket status updated", "ticket_id", id, "status", string(status))
	return s.tickets.GetByID(ctx, id)
}
