package api

import (
	"net/http"

	"github.com/fireregsco/crm/internal/pkg/httputil"
)

// GetReportsData handles GET /api/reports-data: the full dashboard metrics
// object, computed on demand.
func (h *Handlers) GetReportsData(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reports.Build(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, report)
}

// GetStatusWorkflow handles GET /api/status-workflow: the ordered status
// vocabulary plus whether it came from the database or the hardcoded
// fallback.
func (h *Handlers) GetStatusWorkflow(w http.ResponseWriter, r *http.Request) {
	statuses, source := h.Workflow.Vocabulary(r.Context())
	httputil.OK(w, map[string]interface{}{
		"statuses": statuses,
		"source":   source,
		"count":    len(statuses),
	})
}
