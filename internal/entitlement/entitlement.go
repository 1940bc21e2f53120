package entitlement

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// remoteConfig is the document published at the config URL.
type remoteConfig struct {
	IsPaid bool `json:"isPaid"`
}

// Checker fetches the remote is-paid flag that gates premium screens.
// The policy is fail-open: any network or parse failure reports paid, so a
// broken config can never lock users out.
type Checker struct {
	url    string
	client *http.Client
}

func NewChecker(url string) *Checker {
	return &Checker{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Checker) IsPaid(ctx context.Context) bool {
	if c.url == "" {
		return true
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		log.Printf("entitlement: bad config url: %v", err)
		return true
	}
	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("entitlement: fetch failed: %v", err)
		return true
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("entitlement: unexpected status %s", resp.Status)
		return true
	}
	var cfg remoteConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		log.Printf("entitlement: decode failed: %v", err)
		return true
	}
	return cfg.IsPaid
}
