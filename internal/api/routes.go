package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fireregsco/crm/internal/pkg/httputil"
)

// SetupRoutes builds the router. The /api/leads aliases exist because the
// public website forms post to "leads" while the admin dashboard talks
// about "sales"; both names hit the same handlers.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		for _, base := range []string{"/sales", "/leads"} {
			r.Post(base, h.CreateLead)
			r.Get(base, h.GetSales)
			r.Put(base, h.UpdateLeadStatus)
			r.Get(base+"/{id}/history", h.GetLeadHistory)
		}

		r.Get("/reports-data", h.GetReportsData)
		r.Get("/status-workflow", h.GetStatusWorkflow)

		r.Post("/seed", h.RunSeed)
		r.Get("/seed", h.RunSeed)

		r.Route("/support/tickets", func(r chi.Router) {
			r.Post("/", h.CreateTicket)
			r.Get("/", h.ListTickets)
			r.Get("/{id}", h.GetTicket)
			r.Put("/{id}/status", h.UpdateTicketStatus)
		})

		r.Post("/chat", h.Chat)
		r.Post("/transcribe", h.Transcribe)
		r.Get("/social-counts", h.GetSocialCounts)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.NotFound(w, "route not found")
	})

	return r
}
