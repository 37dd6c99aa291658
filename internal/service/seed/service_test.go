package seed

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireregsco/crm/internal/cache"
	"github.com/fireregsco/crm/internal/domain"
	"github.com/fireregsco/crm/internal/service/sales"
	"github.com/fireregsco/crm/internal/service/workflow"
)

type memSales struct {
	mu        sync.Mutex
	records   []domain.Sale
	failAfter int // fail every Create once this many have succeeded; 0 = never
}

func (m *memSales) GetByID(_ context.Context, id string) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			s := m.records[i]
			return &s, nil
		}
	}
	return nil, sales.ErrNotFound
}

func (m *memSales) GetByEmail(_ context.Context, _ string) (*domain.Sale, error) {
	return nil, sales.ErrNotFound
}

func (m *memSales) List(_ context.Context, _ sales.ListFilter) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Sale(nil), m.records...), nil
}

func (m *memSales) Create(_ context.Context, sale *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && len(m.records) >= m.failAfter {
		return errors.New("insert failed")
	}
	m.records = append(m.records, *sale)
	return nil
}

func (m *memSales) Update(_ context.Context, _ *domain.Sale) error { return nil }

func (m *memSales) UpdateStatus(_ context.Context, _, _ string, _ time.Time) error { return nil }

func (m *memSales) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

type memTracking struct {
	mu      sync.Mutex
	entries []domain.StatusTracking
}

func (m *memTracking) Append(_ context.Context, entry *domain.StatusTracking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memTracking) ListBySale(_ context.Context, saleID string) ([]domain.StatusTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StatusTracking
	for _, e := range m.entries {
		if e.SaleID == saleID {
			out = append(out, e)
		}
	}
	return out, nil
}

func setup(failAfter int) (*Service, *memSales, *memTracking) {
	salesRepo := &memSales{failAfter: failAfter}
	tracking := &memTracking{}
	svc := NewService(salesRepo, tracking, workflow.NewService(nil, time.Hour), cache.NewMemory())
	svc.rng = rand.New(rand.NewSource(42))
	return svc, salesRepo, tracking
}

func TestGenerateCountIsCapped(t *testing.T) {
	out := Generate(domain.DefaultWorkflow, Options{Count: 500, Rand: rand.New(rand.NewSource(1))})
	assert.Len(t, out, MaxCount)
}

func TestGenerateHistoriesAreMonotonic(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	out := Generate(domain.DefaultWorkflow, Options{
		Count: 50,
		Now:   now,
		Rand:  rand.New(rand.NewSource(7)),
	})
	require.Len(t, out, 50)

	for _, rec := range out {
		require.NotEmpty(t, rec.History)
		assert.Equal(t, domain.StatusPending, rec.History[0].Status)
		for i := 1; i < len(rec.History); i++ {
			prev, cur := rec.History[i-1], rec.History[i]
			assert.False(t, cur.CreatedAt.Before(prev.CreatedAt),
				"ledger times must be non-decreasing")
			assert.Equal(t, rec.Sale.ID, cur.SaleID)
		}

		last := rec.History[len(rec.History)-1]
		assert.Equal(t, last.Status, rec.Sale.Status,
			"lead status must match the last ledger entry")
		assert.Equal(t, last.CreatedAt, rec.Sale.UpdatedAt)
		assert.False(t, last.CreatedAt.After(now), "no future ledger entries")
		assert.False(t, rec.Sale.CreatedAt.After(now), "no future arrivals")
	}
}

func TestGenerateRespectsMaxHops(t *testing.T) {
	out := Generate(domain.DefaultWorkflow, Options{
		Count:   30,
		MaxHops: 2,
		Now:     time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Rand:    rand.New(rand.NewSource(3)),
	})
	for _, rec := range out {
		assert.LessOrEqual(t, len(rec.History), 3,
			"two hops means at most three ledger entries")
	}
}

func TestGenerateArrivalsWithinLastYear(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	out := Generate(domain.DefaultWorkflow, Options{
		Count: 100,
		Now:   now,
		Rand:  rand.New(rand.NewSource(11)),
	})
	floor := now.AddDate(-1, 0, 0)
	for _, rec := range out {
		assert.False(t, rec.Sale.CreatedAt.Before(floor))
		assert.False(t, rec.Sale.CreatedAt.After(now))
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	svc, salesRepo, tracking := setup(0)

	summary, err := svc.Run(context.Background(), RunInput{Count: 10, DryRun: true})
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 10, summary.Generated)
	assert.LessOrEqual(t, len(summary.Preview), PreviewLimit)
	assert.NotEmpty(t, summary.Preview)
	assert.Equal(t, 0, summary.Succeeded)

	count, err := salesRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count, "dry run must not touch the store")
	assert.Empty(t, tracking.entries)
}

func TestRunPersistsLeadsAndLedgers(t *testing.T) {
	svc, salesRepo, tracking := setup(0)

	summary, err := svc.Run(context.Background(), RunInput{Count: 8})
	require.NoError(t, err)

	assert.Equal(t, 8, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, summary.Preview)

	count, _ := salesRepo.Count(context.Background())
	assert.Equal(t, 8, count)

	for _, sale := range salesRepo.records {
		hist, err := tracking.ListBySale(context.Background(), sale.ID)
		require.NoError(t, err)
		require.NotEmpty(t, hist)
		assert.Equal(t, hist[len(hist)-1].Status, sale.Status)
	}
}

func TestRunContinuesPastIndividualFailures(t *testing.T) {
	svc, salesRepo, _ := setup(3)

	summary, err := svc.Run(context.Background(), RunInput{Count: 10})
	require.NoError(t, err, "partial failure is a summary, not an error")

	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 7, summary.Failed)
	assert.Len(t, summary.Errors, maxErrorSample)

	count, _ := salesRepo.Count(context.Background())
	assert.Equal(t, 3, count)
}
