package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/fireregsco/crm/internal/cache"
	"github.com/fireregsco/crm/internal/pkg/logger"
	"github.com/fireregsco/crm/internal/service/sales"
	"github.com/fireregsco/crm/internal/service/workflow"
)

// maxErrorSample caps how many individual persistence errors a summary
// carries back to the caller. The rest are only logged.
const maxErrorSample = 5

// Service runs generation and persistence of demo data.
type Service struct {
	sales    sales.Repository
	tracking sales.TrackingRepository
	wf       *workflow.Service
	store    cache.Store

	rng *rand.Rand
	now func() time.Time
}

// NewService creates a seeding service.
func NewService(salesRepo sales.Repository, tracking sales.TrackingRepository, wf *workflow.Service, store cache.Store) *Service {
	return &Service{
		sales:    salesRepo,
		tracking: tracking,
		wf:       wf,
		store:    store,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
}

// RunInput controls one seeding run.
type RunInput struct {
	Count   int
	MaxHops int
	DryRun  bool
}

// Summary is the structured result of a seeding run. Individual record
// failures do not fail the run; they are counted and sampled here.
type Summary struct {
	Requested int         `json:"requested"`
	Generated int         `json:"generated"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	DryRun    bool        `json:"dryRun"`
	Errors    []string    `json:"errors,omitempty"`
	Preview   []Generated `json:"preview,omitempty"`
}

// Run generates demo leads and, unless the run is a dry run, persists them.
// A dry run returns a short preview and writes nothing.
func (s *Service) Run(ctx context.Context, in RunInput) (*Summary, error) {
	statuses, _ := s.wf.Vocabulary(ctx)

	generated := Generate(statuses, Options{
		Count:   in.Count,
		MaxHops: in.MaxHops,
		Now:     s.now().UTC(),
		Rand:    s.rng,
	})

	summary := &Summary{
		Requested: in.Count,
		Generated: len(generated),
		DryRun:    in.DryRun,
	}

	if in.DryRun {
		limit := PreviewLimit
		if len(generated) < limit {
			limit = len(generated)
		}
		summary.Preview = generated[:limit]
		return summary, nil
	}

	for _, record := range generated {
		if err := s.persistOne(ctx, record); err != nil {
			summary.Failed++
			logger.Error("seed: persist record failed",
				"sale_id", record.Sale.ID, "error", err.Error())
			if len(summary.Errors) < maxErrorSample {
				summary.Errors = append(summary.Errors, err.Error())
			}
			continue
		}
		summary.Succeeded++
	}

	if summary.Succeeded > 0 {
		s.store.Clear(ctx)
	}

	logger.Info("seed run finished",
		"generated", summary.Generated,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)
	return summary, nil
}

func (s *Service) persistOne(ctx context.Context, record Generated) error {
	sale := record.Sale
	if err := s.sales.Create(ctx, &sale); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	for i := range record.History {
		entry := record.History[i]
		if err := s.tracking.Append(ctx, &entry); err != nil {
			return fmt.Errorf("append tracking %d/%d: %w", i+1, len(record.History), err)
		}
	}
	return nil
}
