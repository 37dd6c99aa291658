package sales_test

import (
	"context"
	"errors"
	"sort"
	"strings"
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

// memSales is an in-memory sales repository for unit testing.
type memSales struct {
	mu    sync.Mutex
	sales map[string]*domain.Sale // keyed by id
}

func newMemSales() *memSales {
	return &memSales{sales: make(map[string]*domain.Sale)}
}

func (m *memSales) GetByID(_ context.Context, id string) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return nil, sales.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSales) GetByEmail(_ context.Context, email string) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *domain.Sale
	for _, s := range m.sales {
		if !strings.EqualFold(s.Email, email) {
			continue
		}
		if best == nil || s.UpdatedAt.After(best.UpdatedAt) {
			best = s
		}
	}
	if best == nil {
		return nil, sales.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (m *memSales) List(_ context.Context, f sales.ListFilter) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Sale
	for _, s := range m.sales {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memSales) Create(_ context.Context, sale *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sale
	m.sales[cp.ID] = &cp
	return nil
}

func (m *memSales) Update(_ context.Context, sale *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[sale.ID]; !ok {
		return sales.ErrNotFound
	}
	cp := *sale
	m.sales[cp.ID] = &cp
	return nil
}

func (m *memSales) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return sales.ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = updatedAt
	return nil
}

func (m *memSales) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sales), nil
}

// memTracking is an in-memory append-only ledger. failNext makes the next
// Append fail, for degraded-success tests.
type memTracking struct {
	mu       sync.Mutex
	entries  []domain.StatusTracking
	failNext bool
}

func (m *memTracking) Append(_ context.Context, e *domain.StatusTracking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errors.New("tracking insert failed")
	}
	m.entries = append(m.entries, *e)
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
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// stubNotifier records sends and can be told to fail.
type stubNotifier struct {
	sent int
	err  error
}

func (n *stubNotifier) NotifyNewLead(_ context.Context, _ *domain.Sale) error {
	if n.err != nil {
		return n.err
	}
	n.sent++
	return nil
}

type fixture struct {
	svc      *sales.Service
	sales    *memSales
	tracking *memTracking
	notifier *stubNotifier
	store    *cache.Memory
}

func setup(t *testing.T, cfg sales.Config) *fixture {
	t.Helper()
	f := &fixture{
		sales:    newMemSales(),
		tracking: &memTracking{},
		notifier: &stubNotifier{},
		store:    cache.NewMemory(),
	}
	wf := workflow.NewService(nil, time.Hour)
	f.svc = sales.NewService(f.sales, f.tracking, wf, f.store, f.notifier, cfg)
	return f
}

func TestCreateLead(t *testing.T) {
	f := setup(t, sales.Config{})
	ctx := context.Background()

	res, err := f.svc.CreateLead(ctx, sales.CreateInput{
		Name: "Jane Doe", Email: "JANE@x.com", Phone: "5551234567",
	})
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, "pending", res.Sale.Status)
	assert.Equal(t, "jane@x.com", res.Sale.Email, "email stored lowercased")
	assert.True(t, res.NotificationSent)

	history, err := f.svc.History(ctx, res.Sale.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "pending", history[0].Status)
	assert.Equal(t, "system", history[0].UpdatedBy)
}

func TestCreateLeadValidation(t *testing.T) {
	f := setup(t, sales.Config{})
	ctx := context.Background()

	tests := []sales.CreateInput{
		{Email: "a@b.com", Phone: "1"},
		{Name: "A", Phone: "1"},
		{Name: "A", Email: "a@b.com"},
	}
	for _, input := range tests {
		_, err := f.svc.CreateLead(ctx, input)
		assert.ErrorIs(t, err, sales.ErrValidation)
	}

	// No partial writes happened
	n, _ := f.sales.Count(ctx)
	assert.Equal(t, 0, n)
	assert.Empty(t, f.tracking.entries)
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t, sales.Config{})
	ctx := context.Background()

	res, err := f.svc.CreateLead(ctx, sales.CreateInput{
		Name: "Jane Doe", Email: "jane@x.com", Phone: "5551234567",
	})
	require.NoError(t, err)

	upd, err := f.svc.UpdateStatus(ctx, sales.UpdateInput{
		SaleID: res.Sale.ID, Status: "contacted", Notes: "called, left voicemail",
	})
	require.NoError(t, err)
	assert.Empty(t, upd.TrackingWarning)
	assert.Equal(t, "contacted", upd.Sale.Status)

	got, err := f.svc.GetByID(ctx, res.Sale.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "contacted", got.Status)

	history, err := f.svc.History(ctx, res.Sale.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "contacted", history[1].Status)
	assert.Equal(t, "called, left voicemail", history[1].Notes)

	// History is monotonic and the lead's status matches its last entry
	assert.False(t, history[1].CreatedAt.Before(history[0].CreatedAt))
	assert.Equal(t, got.Status, history[1].Status)
}

func TestUpdateStatusNotFound(t *testing.T) {
	f := setup(t, sales.Config{})
	_, err := f.svc.UpdateStatus(context.Background(), sales.UpdateInput{
		SaleID: "nonexistent", Status: "contacted",
	})
	assert.ErrorIs(t, err, sales.ErrNotFound)
}

func TestDedupByEmail(t *testing.T) {
	f := setup(t, sales.Config{})
	ctx := context.Background()

	first, err := f.svc.CreateLead(ctx, sales.CreateInput{
		Name: "Jane Doe", Email: "JANE@x.com", Phone: "5551234567",
	})
	require.NoError(t, err)

	second, err := f.svc.CreateLead(ctx, sales.CreateInput{
		Name: "Jane D.", Email: "jane@x.com", Phone: "5559999999",
	})
	require.NoError(t, err)

	assert.False(t, second.Created, "repeat submission must not create a duplicate")
	assert.Equal(t, first.Sale.ID, second.Sale.ID)

	list, err := f.svc.List(ctx, sales.ListFilter{}, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Jane D.", list[0].Name, "later submission wins")
	assert.Equal(t, "5559999999", list[0].Phone)
	assert.False(t, list[0].UpdatedAt.Before(first.Sale.UpdatedAt))
}

func TestNotificationFailureDoesNotFailCreate(t *testing.T) {
	f := setup(t, sales.Config{})
	f.notifier.err = errors.New("smtp timeout")
	ctx := context.Background()

	res, err := f.svc.CreateLead(ctx, sales.CreateInput{
		Name: "Bob", Email: "bob@y.com", Phone: "1",
	})
	require.NoError(t, err, "ingestion succeeds even if notification fails")
	assert.True(t, res.Created)
	assert.False(t, res.NotificationSent)
	assert.Contains(t, res.Warning, "notification failed")

	n, _ := f.sales.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestTrackingFailureIsDegradedSuccess(t *testing.T) {
	f := setup(t, sales.Config{})
	ctx := context.Background()

	res, err := f.svc.CreateLead(ctx, sales.CreateInput{
		Name: "Bob", Email: "bob@y.com", Phone: "1",
	})
	require.NoError(t, err)

	f.tracking.failNext = true
	upd, err := f.svc.UpdateStatus(ctx, sales.UpdateInput{
		SaleID: res.Sale.ID, Status: "contacted",
	})
	require.NoError(t, err, "primary status write is authoritative")
	assert.NotEmpty(t, upd.TrackingWarning)
	assert.Equal(t, "contacted", upd.Sale.Status)

	// Ledger still has only the initial entry
	history, _ := f.svc.History(ctx, res.Sale.ID)
	assert.Len(t, history, 1)
}

func TestUnknownStatusStrictMode(t *testing.T) {
	f := setup(t, sales.Config{Permissive: false})
	ctx := context.Background()

	res, _ := f.svc.CreateLead(ctx, sales.CreateInput{
		Name: "Bob", Email: "bob@y.com", Phone: "1",
	})

	_, err := f.svc.UpdateStatus(ctx, sales.UpdateInput{
		SaleID: res.Sale.ID, Status: "made-up-status",
	})
	assert.ErrorIs(t, err, sales.ErrUnknownStatus)
}

func TestUnknownStatusPermissiveMode(t *testing.T) {
	f := setup(t, sales.Config{Permissive: true})
	ctx := context.Background()

	res, _ := f.svc.CreateLead(ctx, sales.CreateInput{
		Name: "Bob", Email: "bob@y.com", Phone: "1",
	})

	upd, err := f.svc.UpdateStatus(ctx, sales.UpdateInput{
		SaleID: res.Sale.ID, Status: "made-up-status",
	})
	require.NoError(t, err)
	assert.Equal(t, "made-up-status", upd.Sale.Status)
}

func TestListCacheInvalidatedOnWrite(t *testing.T) {
	f := setup(t, sales.Config{LeadTTL: time.Minute})
	ctx := context.Background()

	_, err := f.svc.CreateLead(ctx, sales.CreateInput{Name: "A", Email: "a@x.com", Phone: "1"})
	require.NoError(t, err)

	list, err := f.svc.List(ctx, sales.ListFilter{}, false)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Second lead invalidates the cached list
	_, err = f.svc.CreateLead(ctx, sales.CreateInput{Name: "B", Email: "b@x.com", Phone: "2"})
	require.NoError(t, err)

	list, err = f.svc.List(ctx, sales.ListFilter{}, false)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestHistoryUnknownSale(t *testing.T) {
	f := setup(t, sales.Config{})
	_, err := f.svc.History(context.Background(), "nope")
	assert.ErrorIs(t, err, sales.ErrNotFound)
}
