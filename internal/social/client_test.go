package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireregsco/crm/internal/cache"
	appconfig "github.com/fireregsco/crm/internal/config"
)

func TestCountsFetchesAndCaches(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		switch r.URL.Query().Get("platform") {
		case "instagram":
			json.NewEncoder(w).Encode(map[string]int{"count": 1200})
		case "linkedin":
			json.NewEncoder(w).Encode(map[string]int{"count": 340})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(appconfig.SocialConfig{
		BaseURL: srv.URL,
		Handles: map[string]string{"instagram": "fireregsco", "linkedin": "fireregsco"},
	}, cache.NewMemory(), time.Minute)
	require.NotNil(t, client)

	counts, err := client.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200, counts["instagram"])
	assert.Equal(t, 340, counts["linkedin"])
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// Second read comes from cache, no further upstream calls.
	counts, err = client.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200, counts["instagram"])
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCountsDegradesToZeroOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(appconfig.SocialConfig{
		BaseURL: srv.URL,
		Handles: map[string]string{"instagram": "fireregsco"},
	}, cache.NewMemory(), time.Minute)

	counts, err := client.Counts(context.Background())
	require.NoError(t, err, "lookup failures degrade, they do not error")
	assert.Equal(t, 0, counts["instagram"])
}

func TestNewClientDisabledWithoutConfig(t *testing.T) {
	assert.Nil(t, NewClient(appconfig.SocialConfig{}, cache.NewMemory(), time.Minute))
}
