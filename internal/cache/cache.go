// Package cache provides a TTL query cache keyed by query shape. It sits in
// front of the Postgres repositories so the public site and the admin
// dashboard don't re-fetch the same lead lists on every poll.
//
// Two backends exist: an in-process memory store (the default; the system
// runs as a single server process) and a Redis store for deployments where
// the cache should survive restarts. Both are selected in cmd/server based
// on configuration.
package cache

import (
	"context"
	"strings"
	"time"
)

// Store is the cache contract. Values are opaque JSON-encoded payloads.
// Get never returns data past its expiry. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the cached value and true on a hit. Expired or absent
	// keys report a miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Invalidate removes a single key.
	Invalidate(ctx context.Context, key string)

	// InvalidateByPrefix removes every key starting with prefix. Used so a
	// single lead mutation clears all entries that might contain that lead
	// (by-id, by-email, all-leads) without enumerating exact keys.
	InvalidateByPrefix(ctx context.Context, prefix string)

	// Clear removes everything.
	Clear(ctx context.Context)
}

// Cache key vocabulary. A lead write invalidates KeyAllSales plus the
// sale_id_/sale_email_ prefixes for the affected record.
const (
	KeyAllSales     = "sales_all"
	KeyWorkflow     = "status_workflow"
	KeySocialCounts = "social_counts"

	PrefixSaleID    = "sale_id_"
	PrefixSaleEmail = "sale_email_"
)

// SaleIDKey returns the cache key for a lead-by-id query.
func SaleIDKey(id string) string { return PrefixSaleID + id }

// SaleEmailKey returns the cache key for a lead-by-email query. Email is
// the case-insensitive identity key, so the key is always lowercased.
func SaleEmailKey(email string) string {
	return PrefixSaleEmail + strings.ToLower(email)
}
