package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fireregsco/crm/internal/cache"
	"github.com/fireregsco/crm/internal/domain"
	"github.com/fireregsco/crm/internal/pkg/logger"
	"github.com/fireregsco/crm/internal/service/workflow"
)

// Config holds the service's tunables.
type Config struct {
	// Permissive logs-and-allows statuses outside the workflow vocabulary.
	Permissive bool
	// LeadTTL is the cache TTL for lead list/detail queries.
	LeadTTL time.Duration
}

// Service implements lead ingestion and status updates. All public methods
// are safe for concurrent use if the underlying repositories are.
type Service struct {
	sales    Repository
	tracking TrackingRepository
	wf       *workflow.Service
	store    cache.Store
	notifier Notifier
	cfg      Config

	now func() time.Time
}

// NewService creates a sales service. notifier may be nil to disable
// outbound email entirely.
func NewService(sales Repository, tracking TrackingRepository, wf *workflow.Service, store cache.Store, notifier Notifier, cfg Config) *Service {
	if cfg.LeadTTL <= 0 {
		cfg.LeadTTL = 60 * time.Second
	}
	return &Service{
		sales:    sales,
		tracking: tracking,
		wf:       wf,
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// CreateInput holds the fields for a new inquiry.
type CreateInput struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	PropertyType  string     `json:"property_type"`
	DoorCount     string     `json:"door_count"`
	Message       string     `json:"message"`
	PreferredDate *time.Time `json:"preferred_date"`
	// Status overrides the workflow entry status. Used by imports and the
	// demo seeder; the public form never sets it.
	Status string `json:"status,omitempty"`
}

// CreateResult reports what CreateLead did. Warning carries any secondary
// failure (ledger append, notification) that did not fail the operation.
type CreateResult struct {
	Sale             *domain.Sale `json:"sale"`
	Created          bool         `json:"created"`
	NotificationSent bool         `json:"notification_sent"`
	Warning          string       `json:"warning,omitempty"`
}

// CreateLead validates and persists a new inquiry. A submission matching an
// existing lead by email (case-insensitive) updates that record in place
// rather than creating a duplicate.
func (s *Service) CreateLead(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	status := input.Status
	if status == "" {
		status = s.wf.EntryStatus()
	} else if err := s.checkStatus(ctx, status); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	result := &CreateResult{}

	existing, err := s.sales.GetByEmail(ctx, email)
	switch {
	case err == nil:
		// Repeat submission: update in place, keep most recent.
		sale, warning, uerr := s.updateExisting(ctx, existing, input, status, now)
		if uerr != nil {
			return nil, uerr
		}
		result.Sale = sale
		result.Warning = warning
		logger.Info("lead updated on repeat inquiry", "sale_id", sale.ID, "email", email)

	case errors.Is(err, ErrNotFound):
		sale := &domain.Sale{
			ID:            uuid.New().String(),
			Name:          strings.TrimSpace(input.Name),
			Email:         email,
			Phone:         strings.TrimSpace(input.Phone),
			PropertyType:  input.PropertyType,
			DoorCount:     input.DoorCount,
			Message:       input.Message,
			Status:        status,
			PreferredDate: input.PreferredDate,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.sales.Create(ctx, sale); err != nil {
			return nil, fmt.Errorf("create sale: %w", err)
		}

		// Initial ledger entry mirrors the entry status. Its failure must
		// not undo the created lead.
		if err := s.appendTracking(ctx, sale.ID, status, "Initial inquiry received", "system", now); err != nil {
			result.Warning = "lead saved, tracking entry failed"
			logger.Error("initial tracking append failed", "sale_id", sale.ID, "error", err.Error())
		}
		result.Sale = sale
		result.Created = true
		logger.Info("lead created", "sale_id", sale.ID, "email", email, "status", status)

	default:
		return nil, fmt.Errorf("lookup sale by email: %w", err)
	}

	s.invalidateFor(ctx, result.Sale)

	if s.notifier != nil {
		if err := s.notifier.NotifyNewLead(ctx, result.Sale); err != nil {
			// Durable write, soft notify: the lead is still created.
			if result.Warning != "" {
				result.Warning += "; notification failed"
			} else {
				result.Warning = "lead saved, notification failed"
			}
			logger.Warn("lead notification failed", "sale_id", result.Sale.ID, "error", err.Error())
		} else {
			result.NotificationSent = true
		}
	}

	return result, nil
}

func (s *Service) updateExisting(ctx context.Context, sale *domain.Sale, input CreateInput, status string, now time.Time) (*domain.Sale, string, error) {
	sale.Name = strings.TrimSpace(input.Name)
	sale.Phone = strings.TrimSpace(input.Phone)
	if input.PropertyType != "" {
		sale.PropertyType = input.PropertyType
	}
	if input.DoorCount != "" {
		sale.DoorCount = input.DoorCount
	}
	if input.Message != "" {
		sale.Message = input.Message
	}
	if input.PreferredDate != nil {
		sale.PreferredDate = input.PreferredDate
	}
	sale.UpdatedAt = now

	statusChanged := input.Status != "" && input.Status != sale.Status
	if statusChanged {
		sale.Status = status
	}

	if err := s.sales.Update(ctx, sale); err != nil {
		return nil, "", fmt.Errorf("update sale: %w", err)
	}

	var warning string
	if statusChanged {
		if err := s.appendTracking(ctx, sale.ID, status, "Status updated on repeat inquiry", "system", now); err != nil {
			warning = "lead saved, tracking entry failed"
			logger.Error("tracking append failed", "sale_id", sale.ID, "error", err.Error())
		}
	}
	return sale, warning, nil
}

// UpdateInput holds the fields for a status change.
type UpdateInput struct {
	SaleID    string `json:"leadId"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	UpdatedBy string `json:"updated_by"`
}

// UpdateResult reports a status change. TrackingWarning is set when the
// primary status write succeeded but the ledger append failed: a degraded
// success, not an error.
type UpdateResult struct {
	Sale            *domain.Sale `json:"sale"`
	TrackingWarning string       `json:"tracking_warning,omitempty"`
}

// UpdateStatus moves a lead to a new status and appends one ledger entry.
// Timestamps are always server-assigned so each lead's history stays
// monotonic regardless of what clients send.
func (s *Service) UpdateStatus(ctx context.Context, input UpdateInput) (*UpdateResult, error) {
	if input.SaleID == "" {
		return nil, fmt.Errorf("%w: leadId is required", ErrValidation)
	}
	if input.Status == "" {
		return nil, fmt.Errorf("%w: status is required", ErrValidation)
	}

	sale, err := s.sales.GetByID(ctx, input.SaleID)
	if err != nil {
		return nil, err
	}

	if err := s.checkStatus(ctx, input.Status); err != nil {
		return nil, err
	}

	updatedBy := input.UpdatedBy
	if updatedBy == "" {
		updatedBy = "admin"
	}

	now := s.now().UTC()
	if err := s.sales.UpdateStatus(ctx, sale.ID, input.Status, now); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	result := &UpdateResult{}
	if err := s.appendTracking(ctx, sale.ID, input.Status, input.Notes, updatedBy, now); err != nil {
		// Lead status is authoritative; record the inconsistency and move on.
		result.TrackingWarning = "status updated, tracking entry failed"
		logger.Error("tracking append failed", "sale_id", sale.ID, "status", input.Status, "error", err.Error())
	}

	sale.Status = input.Status
	sale.UpdatedAt = now
	result.Sale = sale

	s.invalidateFor(ctx, sale)
	logger.Info("lead status updated", "sale_id", sale.ID, "status", input.Status, "updated_by", updatedBy)
	return result, nil
}

// checkStatus validates status against the workflow vocabulary. In
// permissive mode unknown statuses are logged and allowed.
func (s *Service) checkStatus(ctx context.Context, status string) error {
	if s.wf.IsValid(ctx, status) {
		return nil
	}
	if s.cfg.Permissive {
		logger.Warn("status outside workflow vocabulary, allowing", "status", status)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
}

func (s *Service) appendTracking(ctx context.Context, saleID, status, notes, updatedBy string, at time.Time) error {
	return s.tracking.Append(ctx, &domain.StatusTracking{
		ID:        uuid.New().String(),
		SaleID:    saleID,
		Status:    status,
		Notes:     notes,
		UpdatedBy: updatedBy,
		CreatedAt: at,
	})
}

// invalidateFor clears every cache entry that might contain the sale.
func (s *Service) invalidateFor(ctx context.Context, sale *domain.Sale) {
	s.store.InvalidateByPrefix(ctx, cache.KeyAllSales)
	s.store.Invalidate(ctx, cache.SaleIDKey(sale.ID))
	s.store.InvalidateByPrefix(ctx, cache.SaleEmailKey(sale.Email))
}

// GetByID returns one sale, from cache unless fresh is set.
func (s *Service) GetByID(ctx context.Context, id string, fresh bool) (*domain.Sale, error) {
	key := cache.SaleIDKey(id)
	if !fresh {
		if data, ok := s.store.Get(ctx, key); ok {
			var sale domain.Sale
			if err := json.Unmarshal(data, &sale); err == nil {
				return &sale, nil
			}
		}
	}

	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cachePut(ctx, key, sale)
	return sale, nil
}

// GetByEmail returns the most recent sale for an address, from cache unless
// fresh is set.
func (s *Service) GetByEmail(ctx context.Context, email string, fresh bool) (*domain.Sale, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	key := cache.SaleEmailKey(email)
	if !fresh {
		if data, ok := s.store.Get(ctx, key); ok {
			var sale domain.Sale
			if err := json.Unmarshal(data, &sale); err == nil {
				return &sale, nil
			}
		}
	}

	sale, err := s.sales.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	s.cachePut(ctx, key, sale)
	return sale, nil
}

// List returns sales matching the filter, from cache unless fresh is set.
// Results are de-duplicated by email, keeping the most recent record, so
// legacy duplicates never surface twice.
func (s *Service) List(ctx context.Context, f ListFilter, fresh bool) ([]domain.Sale, error) {
	key := listKey(f)
	if !fresh {
		if data, ok := s.store.Get(ctx, key); ok {
			var out []domain.Sale
			if err := json.Unmarshal(data, &out); err == nil {
				return out, nil
			}
		}
	}

	out, err := s.sales.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	out = dedupeByEmail(out)

	if data, err := json.Marshal(out); err == nil {
		s.store.Set(ctx, key, data, s.cfg.LeadTTL)
	}
	return out, nil
}

// History returns a sale's status ledger, oldest first.
func (s *Service) History(ctx context.Context, saleID string) ([]domain.StatusTracking, error) {
	if _, err := s.sales.GetByID(ctx, saleID); err != nil {
		return nil, err
	}
	entries, err := s.tracking.ListBySale(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("list tracking: %w", err)
	}
	return entries, nil
}

// Count returns the total number of sales, bypassing the cache.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.sales.Count(ctx)
}

func (s *Service) cachePut(ctx context.Context, key string, sale *domain.Sale) {
	if data, err := json.Marshal(sale); err == nil {
		s.store.Set(ctx, key, data, s.cfg.LeadTTL)
	}
}

func listKey(f ListFilter) string {
	key := cache.KeyAllSales
	if f.Status != "" {
		key += "_status_" + f.Status
	}
	if f.Limit > 0 || f.Offset > 0 {
		key += fmt.Sprintf("_p%d_%d", f.Limit, f.Offset)
	}
	return key
}

// dedupeByEmail keeps the most recently updated sale per address.
func dedupeByEmail(in []domain.Sale) []domain.Sale {
	seen := make(map[string]int, len(in)) // email -> index in out
	out := make([]domain.Sale, 0, len(in))
	for _, sale := range in {
		email := strings.ToLower(sale.Email)
		if i, ok := seen[email]; ok {
			if sale.UpdatedAt.After(out[i].UpdatedAt) {
				out[i] = sale
			}
			continue
		}
		seen[email] = len(out)
		out = append(out, sale)
	}
	return out
}
