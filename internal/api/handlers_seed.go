package api

import (
	"net/http"
	"strconv"

	"github.com/fireregsco/crm/internal/pkg/httputil"
	"github.com/fireregsco/crm/internal/service/seed"
)

// RunSeed handles POST and GET /api/seed?count=&dryRun=. A dry run returns
// a short preview without persisting anything.
func (h *Handlers) RunSeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	count := 10
	if n, err := strconv.Atoi(q.Get("count")); err == nil && n > 0 {
		count = n
	}
	dryRun := boolParam(r, "dryRun", "dry_run")

	summary, err := h.Seed.Run(r.Context(), seed.RunInput{Count: count, DryRun: dryRun})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	message := "seed complete"
	if summary.DryRun {
		message = "dry run, nothing persisted"
	} else if summary.Failed > 0 {
		message = "seed finished with partial failures"
	}
	httputil.OKMessage(w, summary, message)
}
