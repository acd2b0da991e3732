package render

import (
	"context"
	"log"
	"strings"

	"github.com/H4M5TER/steaminfo/internal/locale"
	"github.com/H4M5TER/steaminfo/internal/steam"
)

// DetailSource is the slice of the storefront client the text renderer needs.
type DetailSource interface {
	Details(ctx context.Context, appID string) (*steam.AppDetails, error)
	Reviews(ctx context.Context, appID, purchaseType string) (steam.ReviewSummary, error)
}

// TextRenderer composes the fixed-field text summary for a title. Composite
// mode is the same render with the header image reference retained.
type TextRenderer struct {
	store DetailSource
	loc   locale.Localizer
}

// NewTextRenderer builds a text renderer over a storefront client.
func NewTextRenderer(store DetailSource, loc locale.Localizer) *TextRenderer {
	return &TextRenderer{store: store, loc: loc}
}

// Render fetches details and reviews for appID and formats the summary.
// A per-id details failure propagates steam.ErrAppNotFound; a review failure
// degrades to a summary without the review segment.
func (r *TextRenderer) Render(ctx context.Context, appID string, mode Mode) (Message, error) {
	details, err := r.store.Details(ctx, appID)
	if err != nil {
		return Message{}, err
	}

	priceLine := r.priceText(details)
	if summary, err := r.store.Reviews(ctx, appID, steam.PurchaseType(details.IsFree)); err != nil {
		log.Printf("render: reviews for %s unavailable: %v", appID, err)
	} else if summary.TotalReviews > 0 {
		priceLine += " | " + r.loc.Text("render.reviews", summary.PositivePercent())
	}

	lines := []string{
		details.Name,
		priceLine,
		r.loc.Text("render.release", details.ReleaseDateText()),
		r.loc.Text("render.credits",
			strings.Join(details.Developers, ", "),
			strings.Join(details.Publishers, ", ")),
		details.ShortDescription,
	}

	msg := Message{Text: strings.Join(lines, "\n")}
	if mode == ModeComposite {
		msg.ImageURL = details.HeaderImage
	}
	return msg, nil
}

// priceText renders the price segment: a localized free label, or the final
// price joined with the pre-discount price when a discount exists.
func (r *TextRenderer) priceText(details *steam.AppDetails) string {
	if details.IsFree || details.Price == nil {
		return r.loc.Text("render.free")
	}
	if details.HasDiscount() {
		return details.Price.FinalFormatted + " / " + details.Price.InitialFormatted
	}
	return details.Price.FinalFormatted
}
