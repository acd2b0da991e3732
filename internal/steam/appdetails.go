package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// PriceOverview carries the storefront's pre-formatted price strings.
type PriceOverview struct {
	FinalFormatted   string `json:"final_formatted"`
	InitialFormatted string `json:"initial_formatted"`
	DiscountPercent  int    `json:"discount_percent"`
}

// AppDetails is the per-render detail record for one title.
type AppDetails struct {
	Name             string         `json:"name"`
	ShortDescription string         `json:"short_description"`
	IsFree           bool           `json:"is_free"`
	Price            *PriceOverview `json:"price_overview"`
	ReleaseDate      releaseDate    `json:"release_date"`
	Developers       []string       `json:"developers"`
	Publishers       []string       `json:"publishers"`
	HeaderImage      string         `json:"header_image"`
}

type releaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

// ReleaseDateText returns the storefront's formatted release date.
func (d *AppDetails) ReleaseDateText() string {
	return d.ReleaseDate.Date
}

// HasDiscount reports whether a discount pair should be shown.
func (d *AppDetails) HasDiscount() bool {
	return d.Price != nil && d.Price.DiscountPercent > 0 && d.Price.InitialFormatted != ""
}

type appDetailsEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Details fetches the detail record for one app id. A success=false envelope
// maps to ErrAppNotFound.
func (c *Client) Details(ctx context.Context, appID string) (*AppDetails, error) {
	q := url.Values{}
	q.Set("appids", appID)
	q.Set("cc", c.region)
	q.Set("l", c.locale)

	resp, err := c.get(ctx, c.baseURL+"/api/appdetails?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelopes map[string]appDetailsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelopes); err != nil {
		return nil, fmt.Errorf("steam: decode appdetails: %w", err)
	}

	env, ok := envelopes[appID]
	if !ok || !env.Success {
		return nil, fmt.Errorf("%w: %s", ErrAppNotFound, appID)
	}

	var details AppDetails
	if err := json.Unmarshal(env.Data, &details); err != nil {
		return nil, fmt.Errorf("steam: decode appdetails data: %w", err)
	}
	return &details, nil
}
