package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/fireregsco/crm/internal/config"
	"github.com/fireregsco/crm/internal/pkg/logger"
)

// main runs every .sql file in the migrations directory in lexical order.
// Files are idempotent (CREATE TABLE IF NOT EXISTS, ON CONFLICT DO NOTHING)
// so re-running is safe.
func main() {
	dir := flag.String("dir", "migrations", "directory containing .sql migration files")
	list := flag.Bool("list", false, "list migrations without running them")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		logger.Error("failed to scan migrations", "error", err.Error())
		os.Exit(1)
	}
	sort.Strings(files)

	if len(files) == 0 {
		logger.Error("no migrations found", "dir", *dir)
		os.Exit(1)
	}

	if *list {
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

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

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Error("failed to read migration", "file", file, "error", err.Error())
			os.Exit(1)
		}
		if _, err := db.Exec(string(data)); err != nil {
			logger.Error("migration failed", "file", file, "error", err.Error())
			os.Exit(1)
		}
		logger.Info("migration applied", "file", file)
	}
	logger.Info("migrations complete", "count", len(files))
}
