package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/fireregsco/crm/internal/ai"
	"github.com/fireregsco/crm/internal/api"
	"github.com/fireregsco/crm/internal/cache"
	"github.com/fireregsco/crm/internal/config"
	"github.com/fireregsco/crm/internal/notify"
	"github.com/fireregsco/crm/internal/pkg/logger"
	"github.com/fireregsco/crm/internal/repository/postgres"
	"github.com/fireregsco/crm/internal/service/reports"
	"github.com/fireregsco/crm/internal/service/sales"
	"github.com/fireregsco/crm/internal/service/seed"
	"github.com/fireregsco/crm/internal/service/support"
	"github.com/fireregsco/crm/internal/service/workflow"
	"github.com/fireregsco/crm/internal/social"
)

// checkPortAvailable verifies that the target port is not already in use,
// so a stale process never silently shadows the new one.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		logger.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	if err := checkPortAvailable(cfg.Server.GetHost(), cfg.Server.Port); err != nil {
		logger.Error("pre-flight check failed", "error", err.Error())
		os.Exit(1)
	}

	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("failed to open database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		logger.Warn("database unreachable at startup, continuing", "error", err.Error())
	}
	pingCancel()

	// Cache backend: Redis when configured, in-process memory otherwise.
	var store cache.Store = cache.NewMemory()
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err.Error())
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		store = cache.NewRedis(redisClient)
		logger.Info("using redis cache backend")
	}

	wf := workflow.NewService(postgres.NewWorkflowRepo(db), cfg.Cache.WorkflowTTL())

	notifier, err := notify.Build(ctx, cfg.Notify)
	if err != nil {
		logger.Error("failed to build notifier", "error", err.Error())
		os.Exit(1)
	}

	saleRepo := postgres.NewSaleRepo(db)
	trackingRepo := postgres.NewTrackingRepo(db)

	var salesNotifier sales.Notifier
	if notifier != nil {
		salesNotifier = notifier
	}
	salesSvc := sales.NewService(saleRepo, trackingRepo, wf, store, salesNotifier, sales.Config{
		Permissive: cfg.Workflow.Permissive,
		LeadTTL:    cfg.Cache.LeadTTL(),
	})

	handlers := &api.Handlers{
		Sales:    salesSvc,
		Workflow: wf,
		Reports: reports.NewService(struct {
			*postgres.SaleRepo
			*postgres.TrackingRepo
		}{saleRepo, trackingRepo}, wf),
		Seed:    seed.NewService(saleRepo, trackingRepo, wf, store),
		Support: support.NewService(postgres.NewTicketRepo(db)),
		AI:      ai.NewClient(cfg.OpenAI),
		Social:  social.NewClient(cfg.Social, store, cfg.Cache.SocialTTL()),
		DB:      db,
		Redis:   redisClient,
	}

	server := api.NewServer(cfg.Server, handlers)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.GetHost(), "port", cfg.Server.Port)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err.Error())
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err.Error())
	}
	logger.Info("server stopped")
}
