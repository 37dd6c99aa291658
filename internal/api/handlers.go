package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/fireregsco/crm/internal/ai"
	"github.com/fireregsco/crm/internal/pkg/httputil"
	"github.com/fireregsco/crm/internal/service/reports"
	"github.com/fireregsco/crm/internal/service/sales"
	"github.com/fireregsco/crm/internal/service/seed"
	"github.com/fireregsco/crm/internal/service/support"
	"github.com/fireregsco/crm/internal/service/workflow"
	"github.com/fireregsco/crm/internal/social"
)

// Handlers carries the wired services behind the HTTP surface. Optional
// integrations (AI, Social, Redis) may be nil; their endpoints then report
// the feature as unavailable.
type Handlers struct {
	Sales    *sales.Service
	Workflow *workflow.Service
	Reports  *reports.Service
	Seed     *seed.Service
	Support  *support.Service
	AI       *ai.Client
	Social   *social.Client

	DB    *sql.DB
	Redis *redis.Client
}

// serviceError maps service-layer errors onto the envelope and status code.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sales.ErrValidation),
		errors.Is(err, sales.ErrUnknownStatus),
		errors.Is(err, support.ErrValidation):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, sales.ErrNotFound),
		errors.Is(err, support.ErrNotFound):
		httputil.NotFound(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}

// boolParam reads a boolean query flag ("1", "true", "yes" are true).
func boolParam(r *http.Request, names ...string) bool {
	for _, name := range names {
		switch r.URL.Query().Get(name) {
		case "1", "true", "yes":
			return true
		}
	}
	return false
}
