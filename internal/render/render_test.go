package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/H4M5TER/steaminfo/internal/config"
	"github.com/H4M5TER/steaminfo/internal/locale"
	"github.com/H4M5TER/steaminfo/internal/steam"
)

type fakeStore struct {
	details    *steam.AppDetails
	detailsErr error
	reviews    steam.ReviewSummary
	reviewsErr error

	gotPurchaseType string
}

func (f *fakeStore) Details(ctx context.Context, appID string) (*steam.AppDetails, error) {
	return f.details, f.detailsErr
}

func (f *fakeStore) Reviews(ctx context.Context, appID, purchaseType string) (steam.ReviewSummary, error) {
	f.gotPurchaseType = purchaseType
	return f.reviews, f.reviewsErr
}

func paidDetails() *steam.AppDetails {
	return &steam.AppDetails{
		Name:             "Half-Life 2",
		ShortDescription: "A classic.",
		Price: &steam.PriceOverview{
			FinalFormatted:   "$4.99",
			InitialFormatted: "$9.99",
			DiscountPercent:  50,
		},
		Developers:  []string{"Valve"},
		Publishers:  []string{"Valve"},
		HeaderImage: "https://cdn.example/hl2.jpg",
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"", ModeText, true},
		{"text", ModeText, true},
		{"composite", ModeComposite, true},
		{"screenshot", ModeScreenshot, true},
		{"video", ModeText, false},
	}
	for _, c := range cases {
		got, err := ParseMode(c.in)
		if c.ok && err != nil {
			t.Errorf("ParseMode(%q): unexpected error %v", c.in, err)
		}
		if !c.ok && err == nil {
			t.Errorf("ParseMode(%q): expected error", c.in)
		}
		if err == nil && got != c.want {
			t.Errorf("ParseMode(%q): got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTextRenderFreeTitle(t *testing.T) {
	store := &fakeStore{
		details: &steam.AppDetails{Name: "Dota 2", IsFree: true},
		reviews: steam.ReviewSummary{TotalPositive: 90, TotalReviews: 100},
	}
	r := NewTextRenderer(store, locale.New("en"))

	msg, err := r.Render(context.Background(), "570", ModeText)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(msg.Text, "Free") {
		t.Errorf("free title should show the free label, got %q", msg.Text)
	}
	if strings.Contains(msg.Text, " / ") {
		t.Errorf("free title must not show a discount pair, got %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "90% positive") {
		t.Errorf("expected review segment, got %q", msg.Text)
	}
	if store.gotPurchaseType != "all" {
		t.Errorf("free title should query purchase_type=all, got %q", store.gotPurchaseType)
	}
	if msg.ImageURL != "" {
		t.Errorf("text mode must not carry an image url, got %q", msg.ImageURL)
	}
}

func TestTextRenderDiscountPair(t *testing.T) {
	store := &fakeStore{details: paidDetails(), reviews: steam.ReviewSummary{TotalPositive: 97, TotalReviews: 200}}
	r := NewTextRenderer(store, locale.New("en"))

	msg, err := r.Render(context.Background(), "220", ModeText)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(msg.Text, "$4.99 / $9.99") {
		t.Errorf("discounted title should show both prices, got %q", msg.Text)
	}
	if store.gotPurchaseType != "steam" {
		t.Errorf("paid title should query purchase_type=steam, got %q", store.gotPurchaseType)
	}
}

func TestTextRenderDegradesWithoutReviews(t *testing.T) {
	store := &fakeStore{details: paidDetails(), reviewsErr: errors.New("boom")}
	r := NewTextRenderer(store, locale.New("en"))

	msg, err := r.Render(context.Background(), "220", ModeText)
	if err != nil {
		t.Fatalf("review failure should not fail the render: %v", err)
	}
	if strings.Contains(msg.Text, "positive") {
		t.Errorf("failed reviews should omit the review segment, got %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "Half-Life 2") {
		t.Errorf("name should survive review failure, got %q", msg.Text)
	}
}

func TestTextRenderPropagatesDetailsError(t *testing.T) {
	store := &fakeStore{detailsErr: steam.ErrAppNotFound}
	r := NewTextRenderer(store, locale.New("en"))

	if _, err := r.Render(context.Background(), "99999", ModeText); !errors.Is(err, steam.ErrAppNotFound) {
		t.Errorf("expected ErrAppNotFound, got %v", err)
	}
}

func TestCompositeCarriesHeaderImage(t *testing.T) {
	store := &fakeStore{details: paidDetails()}
	r := NewTextRenderer(store, locale.New("en"))

	msg, err := r.Render(context.Background(), "220", ModeComposite)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.ImageURL != "https://cdn.example/hl2.jpg" {
		t.Errorf("composite mode should carry the header image, got %q", msg.ImageURL)
	}
}

func TestPageShooterUnstarted(t *testing.T) {
	p := NewPageShooter(config.BrowserConfig{}, "https://store.steampowered.com")

	if p.Ready() {
		t.Error("unstarted shooter should not report ready")
	}
	if _, err := p.Render(context.Background(), "570"); !errors.Is(err, ErrBrowserUnavailable) {
		t.Errorf("expected ErrBrowserUnavailable, got %v", err)
	}
}

func TestPageShooterStartWithoutEndpoint(t *testing.T) {
	p := NewPageShooter(config.BrowserConfig{}, "https://store.steampowered.com")
	if err := p.Start(context.Background()); !errors.Is(err, ErrBrowserUnavailable) {
		t.Errorf("expected ErrBrowserUnavailable without debugger url or launch, got %v", err)
	}
}

func TestPageShooterCloseIdempotent(t *testing.T) {
	p := NewPageShooter(config.BrowserConfig{}, "https://store.steampowered.com")
	if err := p.Close(); err != nil {
		t.Errorf("first close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if err := p.Start(context.Background()); !errors.Is(err, ErrBrowserUnavailable) {
		t.Errorf("start after close should fail, got %v", err)
	}
}

type fakeShooter struct {
	ready  bool
	msg    Message
	called bool
}

func (f *fakeShooter) Render(ctx context.Context, appID string) (Message, error) {
	f.called = true
	return f.msg, nil
}

func (f *fakeShooter) Ready() bool { return f.ready }

func TestDispatcherUsesShooter(t *testing.T) {
	store := &fakeStore{details: paidDetails()}
	shooter := &fakeShooter{ready: true, msg: Message{Image: []byte{1}, MIME: "image/png"}}
	d := NewDispatcher(NewTextRenderer(store, locale.New("en")), shooter, ModeText)

	msg, err := d.Render(context.Background(), "220", ModeScreenshot)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !shooter.called {
		t.Error("screenshot mode should hit the shooter")
	}
	if msg.MIME != "image/png" {
		t.Errorf("unexpected mime %q", msg.MIME)
	}
}

func TestDispatcherFallsBackWithoutBrowser(t *testing.T) {
	store := &fakeStore{details: paidDetails()}
	d := NewDispatcher(NewTextRenderer(store, locale.New("en")), nil, ModeScreenshot)

	msg, err := d.Render(context.Background(), "220", ModeScreenshot)
	if err != nil {
		t.Fatalf("fallback render: %v", err)
	}
	if msg.ImageURL == "" {
		t.Error("fallback should be composite and carry the header image")
	}
	if len(msg.Image) != 0 {
		t.Error("fallback must not fabricate screenshot bytes")
	}
}

func TestDispatcherFallsBackWhenNotReady(t *testing.T) {
	store := &fakeStore{details: paidDetails()}
	shooter := &fakeShooter{ready: false}
	d := NewDispatcher(NewTextRenderer(store, locale.New("en")), shooter, ModeText)

	if _, err := d.Render(context.Background(), "220", ModeScreenshot); err != nil {
		t.Fatalf("fallback render: %v", err)
	}
	if shooter.called {
		t.Error("unready shooter must not be called")
	}
}

func TestScreenshotFormat(t *testing.T) {
	if _, mime := screenshotFormat("jpeg"); mime != "image/jpeg" {
		t.Errorf("jpeg: got %q", mime)
	}
	if _, mime := screenshotFormat("png"); mime != "image/png" {
		t.Errorf("png: got %q", mime)
	}
}
