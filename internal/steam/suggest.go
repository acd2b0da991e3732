package steam

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Candidate is one search result pairing a display name with an opaque
// storefront app id. Order matches the storefront's relevance ranking.
type Candidate struct {
	Name  string
	AppID string
}

// defaultSearchParams are the fixed suggestion-endpoint filters. Entries from
// the config search_params map override them; cc, l, and term are always set
// by the client.
var defaultSearchParams = map[string]string{
	"f":                        "games",
	"realm":                    "1",
	"use_store_query":          "1",
	"use_search_spellcheck":    "1",
	"search_creators_and_tags": "1",
}

// Search queries the suggestion endpoint and parses the HTML fragment it
// returns. Zero matches yields an empty slice and no error.
func (c *Client) Search(ctx context.Context, term string) ([]Candidate, error) {
	q := url.Values{}
	for k, v := range defaultSearchParams {
		q.Set(k, v)
	}
	for k, v := range c.extra {
		q.Set(k, v)
	}
	q.Set("cc", c.region)
	q.Set("l", c.locale)
	q.Set("term", strings.TrimSpace(term))

	resp, err := c.get(ctx, c.baseURL+"/search/suggest?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("steam: parse suggestions: %w", err)
	}

	var candidates []Candidate
	doc.Find("a.match").Each(func(_ int, sel *goquery.Selection) {
		appID, ok := sel.Attr("data-ds-appid")
		if !ok || appID == "" {
			return
		}
		name := strings.TrimSpace(sel.Find(".match_name").First().Text())
		if name == "" {
			return
		}
		candidates = append(candidates, Candidate{Name: name, AppID: appID})
	})
	return candidates, nil
}
