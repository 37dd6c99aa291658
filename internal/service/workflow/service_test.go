package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fireregsco/crm/internal/domain"
	"github.com/fireregsco/crm/internal/service/workflow"
)

// stubRepo returns a fixed vocabulary or error.
type stubRepo struct {
	statuses []domain.StatusInfo
	err      error
	calls    int
}

func (r *stubRepo) List(_ context.Context) ([]domain.StatusInfo, error) {
	r.calls++
	return r.statuses, r.err
}

func TestFallbackOnError(t *testing.T) {
	svc := workflow.NewService(&stubRepo{err: errors.New("connection refused")}, time.Hour)

	statuses, source := svc.Vocabulary(context.Background())
	assert.Equal(t, workflow.SourceHardcoded, source)
	assert.Len(t, statuses, len(domain.DefaultWorkflow))
}

func TestFallbackOnIncompleteVocabulary(t *testing.T) {
	// Fewer rows than the hardcoded default: the whole default wins.
	partial := []domain.StatusInfo{
		{Name: "pending", Order: 0, NextStatuses: []string{"contacted"}},
		{Name: "contacted", Order: 1, NextStatuses: []string{}},
	}
	svc := workflow.NewService(&stubRepo{statuses: partial}, time.Hour)

	statuses, source := svc.Vocabulary(context.Background())
	assert.Equal(t, workflow.SourceHardcoded, source)
	assert.Equal(t, len(domain.DefaultWorkflow), len(statuses))

	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = st.Name
	}
	want := make([]string, len(domain.DefaultWorkflow))
	for i, st := range domain.DefaultWorkflow {
		want[i] = st.Name
	}
	assert.Equal(t, want, names, "effective vocabulary equals the hardcoded default exactly")
}

func TestDatabaseSourceWhenComplete(t *testing.T) {
	full := make([]domain.StatusInfo, len(domain.DefaultWorkflow))
	copy(full, domain.DefaultWorkflow)
	svc := workflow.NewService(&stubRepo{statuses: full}, time.Hour)

	_, source := svc.Vocabulary(context.Background())
	assert.Equal(t, workflow.SourceDatabase, source)
}

func TestVocabularyMemoized(t *testing.T) {
	full := make([]domain.StatusInfo, len(domain.DefaultWorkflow))
	copy(full, domain.DefaultWorkflow)
	repo := &stubRepo{statuses: full}
	svc := workflow.NewService(repo, time.Hour)

	svc.Vocabulary(context.Background())
	svc.Vocabulary(context.Background())
	svc.NextStatuses(context.Background(), "pending")
	assert.Equal(t, 1, repo.calls)

	svc.Refresh()
	svc.Vocabulary(context.Background())
	assert.Equal(t, 2, repo.calls)
}

func TestUnknownStatusHasNoNextStatuses(t *testing.T) {
	svc := workflow.NewService(nil, time.Hour)

	next := svc.NextStatuses(context.Background(), "definitely-not-a-status")
	assert.Empty(t, next)
	assert.False(t, svc.IsValid(context.Background(), "definitely-not-a-status"))
}

func TestTransitionsAndTerminals(t *testing.T) {
	svc := workflow.NewService(nil, time.Hour)
	ctx := context.Background()

	assert.Contains(t, svc.NextStatuses(ctx, "pending"), "contacted")
	assert.True(t, svc.IsTerminal(ctx, domain.StatusCompleted))
	assert.True(t, svc.IsTerminal(ctx, domain.StatusVoid))
	assert.True(t, svc.IsTerminal(ctx, domain.StatusNotAvailable))
	assert.False(t, svc.IsTerminal(ctx, "pending"))
	assert.Equal(t, "pending", svc.EntryStatus())
}
