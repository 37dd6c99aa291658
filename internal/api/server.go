package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	appconfig "github.com/fireregsco/crm/internal/config"
)

// Server is the HTTP API server.
type Server struct {
	cfg     appconfig.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates the API server and wires its routes.
func NewServer(cfg appconfig.ServerConfig, h *Handlers) *Server {
	return &Server{
		cfg:     cfg,
		handler: SetupRoutes(h, cfg.AllowedOrigins),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.GetHost(), s.cfg.Port),
		Handler:           s.handler,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
