package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
)

// ReviewSummary aggregates the storefront's review counts for one title.
type ReviewSummary struct {
	TotalPositive int `json:"total_positive"`
	TotalReviews  int `json:"total_reviews"`
}

// PositivePercent derives the rounded positive-review percentage.
func (s ReviewSummary) PositivePercent() int {
	if s.TotalReviews <= 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalPositive) / float64(s.TotalReviews) * 100))
}

// PurchaseType picks the review filter matching a title's pricing: free
// titles count all acquisitions, paid titles only Steam purchases.
func PurchaseType(isFree bool) string {
	if isFree {
		return "all"
	}
	return "steam"
}

type reviewsEnvelope struct {
	Success      int           `json:"success"`
	QuerySummary ReviewSummary `json:"query_summary"`
}

// Reviews fetches the review aggregate for one app id using the given
// purchase-type filter.
func (c *Client) Reviews(ctx context.Context, appID, purchaseType string) (ReviewSummary, error) {
	q := url.Values{}
	q.Set("json", "1")
	q.Set("language", "all")
	q.Set("purchase_type", purchaseType)
	q.Set("num_per_page", "0")
	q.Set("cc", c.region)
	q.Set("l", c.locale)

	resp, err := c.get(ctx, c.baseURL+"/appreviews/"+appID+"?"+q.Encode())
	if err != nil {
		return ReviewSummary{}, err
	}
	defer resp.Body.Close()

	var env reviewsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return ReviewSummary{}, fmt.Errorf("steam: decode appreviews: %w", err)
	}
	if env.Success != 1 {
		return ReviewSummary{}, fmt.Errorf("steam: appreviews reported failure for %s", appID)
	}
	return env.QuerySummary, nil
}
