package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, SaleIDKey("abc"), []byte(`{"id":"abc"}`), time.Minute)

	got, ok := m.Get(ctx, SaleIDKey("abc"))
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"id":"abc"}`), got)

	_, ok = m.Get(ctx, SaleIDKey("missing"))
	assert.False(t, ok)
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Now()
	m.now = func() time.Time { return now }

	m.Set(ctx, "k", []byte("v"), 60*time.Second)

	// Just inside the TTL
	now = now.Add(59 * time.Second)
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok)

	// Exactly at expiry: never returned
	now = now.Add(1 * time.Second)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len(), "expired entry removed lazily on read")
}

func TestMemoryInvalidateByPrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, SaleEmailKey("jane@x.com"), []byte("a"), time.Minute)
	m.Set(ctx, SaleEmailKey("bob@y.com"), []byte("b"), time.Minute)
	m.Set(ctx, SaleIDKey("123"), []byte("c"), time.Minute)
	m.Set(ctx, KeyAllSales, []byte("d"), time.Minute)

	m.InvalidateByPrefix(ctx, PrefixSaleEmail)

	_, ok := m.Get(ctx, SaleEmailKey("jane@x.com"))
	assert.False(t, ok)
	_, ok = m.Get(ctx, SaleEmailKey("bob@y.com"))
	assert.False(t, ok)

	// Unrelated keys untouched
	_, ok = m.Get(ctx, SaleIDKey("123"))
	assert.True(t, ok)
	_, ok = m.Get(ctx, KeyAllSales)
	assert.True(t, ok)
}

func TestMemoryClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, "a", []byte("1"), time.Minute)
	m.Set(ctx, "b", []byte("2"), time.Minute)
	m.Clear(ctx)

	assert.Equal(t, 0, m.Len())
}

func TestSaleEmailKeyLowercases(t *testing.T) {
	assert.Equal(t, SaleEmailKey("jane@x.com"), SaleEmailKey("JANE@X.com"))
}
