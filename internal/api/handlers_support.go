package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fireregsco/crm/internal/domain"
	"github.com/fireregsco/crm/internal/pkg/httputil"
	"github.com/fireregsco/crm/internal/service/support"
)

// CreateTicket handles POST /api/support/tickets.
func (h *Handlers) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var input support.CreateInput
	if !httputil.Decode(w, r, &input) {
		return
	}

	ticket, err := h.Support.Create(r.Context(), input)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.Created(w, ticket, "ticket created")
}

// ListTickets handles GET /api/support/tickets?status=.
func (h *Handlers) ListTickets(w http.ResponseWriter, r *http.Request) {
	status := domain.TicketStatus(r.URL.Query().Get("status"))
	tickets, err := h.Support.List(r.Context(), status)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, tickets)
}

// GetTicket handles GET /api/support/tickets/{id}.
func (h *Handlers) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.Support.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, ticket)
}

// UpdateTicketStatus handles PUT /api/support/tickets/{id}/status.
func (h *Handlers) UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.TicketStatus `json:"status"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}

	ticket, err := h.Support.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OKMessage(w, ticket, "ticket status updated")
}
