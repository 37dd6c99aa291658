package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fireregsco/crm/internal/pkg/httputil"
)

// HealthCheck handles GET /health with per-component status. The endpoint
// reports 200 as long as the process is up; individual component failures
// show in the body.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]string{}

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			components["postgres"] = "down: " + err.Error()
		} else {
			components["postgres"] = "ok"
		}
	} else {
		components["postgres"] = "not configured"
	}

	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			components["redis"] = "down: " + err.Error()
		} else {
			components["redis"] = "ok"
		}
	}

	if h.AI != nil {
		components["ai"] = "configured"
	}
	if h.Social != nil {
		components["social"] = "configured"
	}

	httputil.OK(w, map[string]interface{}{
		"status":     "up",
		"time":       time.Now().UTC(),
		"components": components,
	})
}
