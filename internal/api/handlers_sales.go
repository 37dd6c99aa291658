package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fireregsco/crm/internal/pkg/httputil"
	"github.com/fireregsco/crm/internal/service/sales"
)

// CreateLead handles POST /api/sales (and /api/leads): a new inquiry form
// submission.
func (h *Handlers) CreateLead(w http.ResponseWriter, r *http.Request) {
	var input sales.CreateInput
	if !httputil.Decode(w, r, &input) {
		return
	}

	result, err := h.Sales.CreateLead(r.Context(), input)
	if err != nil {
		serviceError(w, err)
		return
	}

	message := "lead updated"
	if result.Created {
		message = "lead created"
	}
	if result.Warning != "" {
		message = result.Warning
	}
	httputil.OKMessage(w, result, message)
}

// GetSales handles GET /api/sales: lookup by id, by email, or a filtered
// list. The fresh/nocache flags bypass the query cache.
func (h *Handlers) GetSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fresh := boolParam(r, "fresh", "nocache")

	if id := q.Get("id"); id != "" {
		sale, err := h.Sales.GetByID(r.Context(), id, fresh)
		if err != nil {
			serviceError(w, err)
			return
		}
		httputil.OK(w, sale)
		return
	}

	if email := q.Get("email"); email != "" {
		sale, err := h.Sales.GetByEmail(r.Context(), email, fresh)
		if err != nil {
			serviceError(w, err)
			return
		}
		httputil.OK(w, sale)
		return
	}

	filter := sales.ListFilter{Status: q.Get("status")}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	out, err := h.Sales.List(r.Context(), filter, fresh)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, out)
}

// UpdateLeadStatus handles PUT /api/sales: move a lead to a new status.
func (h *Handlers) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	var input sales.UpdateInput
	if !httputil.Decode(w, r, &input) {
		return
	}

	result, err := h.Sales.UpdateStatus(r.Context(), input)
	if err != nil {
		serviceError(w, err)
		return
	}

	message := "status updated"
	if result.TrackingWarning != "" {
		message = result.TrackingWarning
	}
	httputil.OKMessage(w, result, message)
}

// GetLeadHistory handles GET /api/sales/{id}/history: the full status
// ledger for one lead, oldest first.
func (h *Handlers) GetLeadHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entries, err := h.Sales.History(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	httputil.OK(w, entries)
}
