package workflow

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fireregsco/crm/internal/domain"
	"github.com/fireregsco/crm/internal/pkg/logger"
)

// Source values reported alongside the vocabulary.
const (
	SourceDatabase  = "database"
	SourceHardcoded = "hardcoded"
)

// Service resolves the status vocabulary with fallback semantics. The
// resolved vocabulary is memoized in-struct; the table changes rarely, so a
// long TTL is fine.
type Service struct {
	repo Repository

	mu          sync.RWMutex
	cached      []domain.StatusInfo
	cachedByKey map[string]domain.StatusInfo
	source      string
	cacheTime   time.Time
	cacheTTL    time.Duration

	now func() time.Time
}

// NewService creates a workflow service. repo may be nil, in which case the
// hardcoded default is always used.
func NewService(repo Repository, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &Service{
		repo:     repo,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Vocabulary returns the full ordered status vocabulary and its source
// ("database" or "hardcoded").
func (s *Service) Vocabulary(ctx context.Context) ([]domain.StatusInfo, string) {
	s.mu.RLock()
	if s.cached != nil && s.now().Sub(s.cacheTime) < s.cacheTTL {
		statuses, source := s.cached, s.source
		s.mu.RUnlock()
		return statuses, source
	}
	s.mu.RUnlock()

	statuses, source := s.resolve(ctx)

	byKey := make(map[string]domain.StatusInfo, len(statuses))
	for _, st := range statuses {
		byKey[st.Name] = st
	}

	s.mu.Lock()
	s.cached = statuses
	s.cachedByKey = byKey
	s.source = source
	s.cacheTime = s.now()
	s.mu.Unlock()

	return statuses, source
}

// resolve loads the persisted vocabulary, falling back to the hardcoded
// default when the table is unreachable or incomplete.
func (s *Service) resolve(ctx context.Context) ([]domain.StatusInfo, string) {
	if s.repo == nil {
		return sortedDefault(), SourceHardcoded
	}

	statuses, err := s.repo.List(ctx)
	if err != nil {
		logger.Warn("workflow table unreachable, using hardcoded default", "error", err.Error())
		return sortedDefault(), SourceHardcoded
	}
	if len(statuses) < len(domain.DefaultWorkflow) {
		logger.Warn("workflow table incomplete, using hardcoded default",
			"persisted", len(statuses), "expected", len(domain.DefaultWorkflow))
		return sortedDefault(), SourceHardcoded
	}

	sort.SliceStable(statuses, func(i, j int) bool { return statuses[i].Order < statuses[j].Order })
	return statuses, SourceDatabase
}

// Lookup returns the StatusInfo for the given status name.
func (s *Service) Lookup(ctx context.Context, name string) (domain.StatusInfo, bool) {
	s.Vocabulary(ctx) // ensure cache is warm

	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.cachedByKey[name]
	return st, ok
}

// NextStatuses returns the permitted next statuses for the given status.
// Unknown statuses have no valid next statuses; that is not an error.
func (s *Service) NextStatuses(ctx context.Context, name string) []string {
	st, ok := s.Lookup(ctx, name)
	if !ok {
		return []string{}
	}
	return st.NextStatuses
}

// IsValid reports whether name is a member of the current vocabulary.
func (s *Service) IsValid(ctx context.Context, name string) bool {
	_, ok := s.Lookup(ctx, name)
	return ok
}

// IsTerminal reports whether the status ends a lead's history.
func (s *Service) IsTerminal(ctx context.Context, name string) bool {
	st, ok := s.Lookup(ctx, name)
	return ok && st.IsTerminal()
}

// EntryStatus returns the status assigned to newly created leads.
func (s *Service) EntryStatus() string { return domain.StatusPending }

// Refresh drops the memoized vocabulary so the next read hits the table.
func (s *Service) Refresh() {
	s.mu.Lock()
	s.cached = nil
	s.cachedByKey = nil
	s.mu.Unlock()
}

func sortedDefault() []domain.StatusInfo {
	out := make([]domain.StatusInfo, len(domain.DefaultWorkflow))
	copy(out, domain.DefaultWorkflow)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
