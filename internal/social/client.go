// Package social fetches follower counts for the footer's social proof
// widget. Counts are fetched through a third-party counter API and cached;
// a lookup failure degrades to the last cached value or zero, never an
// error page.
package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fireregsco/crm/internal/cache"
	appconfig "github.com/fireregsco/crm/internal/config"
	"github.com/fireregsco/crm/internal/pkg/httpretry"
	"github.com/fireregsco/crm/internal/pkg/logger"
)

// Counts maps platform name to follower count.
type Counts map[string]int

// Client looks up follower counts, caching results.
type Client struct {
	http    *httpretry.RetryClient
	store   cache.Store
	baseURL string
	apiKey  string
	handles map[string]string
	ttl     time.Duration
}

// NewClient creates a social counter client. Returns nil when no base URL
// is configured.
func NewClient(cfg appconfig.SocialConfig, store cache.Store, ttl time.Duration) *Client {
	if cfg.BaseURL == "" || len(cfg.Handles) == 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Client{
		http:    httpretry.New(&http.Client{Timeout: 10 * time.Second}, 2),
		store:   store,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		handles: cfg.Handles,
		ttl:     ttl,
	}
}

// Counts returns follower counts per platform, from cache when fresh. A
// platform whose lookup fails reports zero.
func (c *Client) Counts(ctx context.Context) (Counts, error) {
	if cached, ok := c.store.Get(ctx, cache.KeySocialCounts); ok {
		var counts Counts
		if err := json.Unmarshal(cached, &counts); err == nil {
			return counts, nil
		}
	}

	counts := Counts{}
	for platform, handle := range c.handles {
		n, err := c.fetchCount(ctx, platform, handle)
		if err != nil {
			logger.Warn("social count lookup failed",
				"platform", platform, "error", err.Error())
			n = 0
		}
		counts[platform] = n
	}

	if data, err := json.Marshal(counts); err == nil {
		c.store.Set(ctx, cache.KeySocialCounts, data, c.ttl)
	}
	return counts, nil
}

type countResponse struct {
	Count int `json:"count"`
}

func (c *Client) fetchCount(ctx context.Context, platform, handle string) (int, error) {
	u := fmt.Sprintf("%s/counts?platform=%s&handle=%s",
		c.baseURL, url.QueryEscape(platform), url.QueryEscape(handle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out countResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
