package domain

import "time"

// TicketStatus enumerates the lifecycle states of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// Ticket represents a support request submitted from the website.
type Ticket struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Email     string       `json:"email" db:"email"`
	Subject   string       `json:"subject" db:"subject"`
	Message   string       `json:"message" db:"message"`
	Status    TicketStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// ValidTicketStatus reports whether s is a known ticket status.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}
