package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/fireregsco/crm/internal/cache"
	"github.com/fireregsco/crm/internal/config"
	"github.com/fireregsco/crm/internal/pkg/logger"
	"github.com/fireregsco/crm/internal/repository/postgres"
	"github.com/fireregsco/crm/internal/service/seed"
	"github.com/fireregsco/crm/internal/service/workflow"
)

// main seeds demo leads against DATABASE_URL. The same generator backs
// POST /api/seed; this binary exists so a fresh environment can be
// populated without a running server.
func main() {
	count := flag.Int("count", 25, "number of demo leads to generate")
	dryRun := flag.Bool("dry-run", false, "print a preview without writing")
	flag.Parse()

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		logger.Error("failed to load config", "error", err.Error())
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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	wf := workflow.NewService(postgres.NewWorkflowRepo(db), cfg.Cache.WorkflowTTL())
	svc := seed.NewService(
		postgres.NewSaleRepo(db),
		postgres.NewTrackingRepo(db),
		wf,
		cache.NewMemory(),
	)

	summary, err := svc.Run(ctx, seed.RunInput{
		Count:   *count,
		MaxHops: cfg.Seed.MaxHops,
		DryRun:  *dryRun,
	})
	if err != nil {
		logger.Error("seed run failed", "error", err.Error())
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
