// Package steam talks to the Steam storefront's public suggestion, details,
// and review endpoints. Responses are parsed into small transient records;
// nothing is cached between calls.
package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/H4M5TER/steaminfo/internal/config"
)

// ErrAppNotFound reports that the storefront has no data for an app id.
// This covers regionally restricted and delisted titles and is a normal
// outcome, not an operational failure.
var ErrAppNotFound = errors.New("steam: app not found")

// Client issues requests against one storefront host with fixed region and
// locale parameters.
type Client struct {
	baseURL string
	region  string
	locale  string
	extra   map[string]string
	http    *http.Client
}

// NewClient builds a storefront client from config.
func NewClient(cfg config.SteamConfig) *Client {
	return &Client{
		baseURL: cfg.StoreURL,
		region:  cfg.Region,
		locale:  cfg.Locale,
		extra:   cfg.SearchParams,
		http:    &http.Client{Timeout: cfg.GetRequestTimeout()},
	}
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("steam: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("steam: request %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("steam: request %s: unexpected status %d", url, resp.StatusCode)
	}
	return resp, nil
}
