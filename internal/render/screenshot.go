package render

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/H4M5TER/steaminfo/internal/config"
)

// ErrBrowserUnavailable reports that the screenshot capability was not
// granted at startup or has already been shut down.
var ErrBrowserUnavailable = errors.New("render: browser unavailable")

// Age-gate bypass constants. The store's interstitial accepts any adult
// birth date; these values are fixed rather than configurable and may break
// if the interstitial changes upstream.
const (
	ageGateBirthEpoch = "568022401" // 1988-01-01 Unix time
	ageGateLastCheck  = "1-January-1988"
	ageGateBirthYear  = "1988"
	storeCookieDomain = "store.steampowered.com"
)

const detailPanelSelector = "#game_highlights"

// PageShooter owns the single long-lived browser page used for screenshot
// renders. The page is a shared mutable resource: every render sequence and
// the final Close hold the same mutex, so at most one navigation/screenshot
// runs at a time and the handle is closed exactly once.
type PageShooter struct {
	storeURL string
	cfg      config.BrowserConfig

	mu      sync.Mutex
	browser *rod.Browser
	page    *rod.Page
	closed  bool
}

// NewPageShooter builds an unstarted shooter. Start must succeed before
// Render can produce anything.
func NewPageShooter(cfg config.BrowserConfig, storeURL string) *PageShooter {
	return &PageShooter{storeURL: storeURL, cfg: cfg}
}

// Start connects to an existing Chrome or launches a new one using Rod's
// launcher, then prepares the shared page with the age-gate cookies.
func (p *PageShooter) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrBrowserUnavailable
	}
	if p.page != nil {
		return nil
	}

	controlURL := p.cfg.DebuggerURL
	if controlURL == "" && len(p.cfg.Launch) > 0 {
		bin := p.cfg.Launch[0]
		launch := launcher.New().Bin(bin).Headless(p.cfg.IsHeadless())
		for _, rawFlag := range p.cfg.Launch[1:] {
			flagStr := strings.TrimLeft(rawFlag, "-")
			name, val, hasVal := strings.Cut(flagStr, "=")
			if hasVal {
				launch = launch.Set(flags.Flag(name), val)
			} else {
				launch = launch.Set(flags.Flag(name))
			}
		}
		url, err := launch.Launch()
		if err != nil {
			return fmt.Errorf("render: launch chrome: %w", err)
		}
		controlURL = url
	}
	if controlURL == "" {
		return ErrBrowserUnavailable
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("render: connect to chrome: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("render: create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            800,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		log.Printf("render: failed to set viewport: %v", err)
	}

	if err := page.SetCookies(ageGateCookies()); err != nil {
		_ = page.Close()
		_ = browser.Close()
		return fmt.Errorf("render: set age-gate cookies: %w", err)
	}

	p.browser = browser
	p.page = page
	log.Printf("render: browser connected at %s", controlURL)
	return nil
}

// Ready reports whether the shooter can currently render.
func (p *PageShooter) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page != nil && !p.closed
}

// Render navigates the shared page to the title's store page, passes the age
// gate if one appears, waits for the detail panel, and captures it. The page
// is parked on about:blank afterward, including on failure, so the next
// render starts from a clean state.
func (p *PageShooter) Render(ctx context.Context, appID string) (Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.page == nil || p.closed {
		return Message{}, ErrBrowserUnavailable
	}

	page := p.page.Context(ctx)
	defer func() {
		if !p.closed {
			_ = p.page.Navigate("about:blank")
		}
	}()

	navTimeout := p.cfg.GetNavigationTimeout()
	if err := page.Timeout(navTimeout).Navigate(p.storeURL + "/app/" + appID); err != nil {
		return Message{}, fmt.Errorf("render: navigate to app %s: %w", appID, err)
	}
	if err := page.Timeout(navTimeout).WaitLoad(); err != nil {
		return Message{}, fmt.Errorf("render: wait for store page: %w", err)
	}

	if err := p.passAgeGate(page); err != nil {
		return Message{}, err
	}

	panel, err := page.Timeout(p.cfg.GetElementTimeout()).Element(detailPanelSelector)
	if err != nil {
		return Message{}, fmt.Errorf("render: detail panel for app %s did not appear: %w", appID, err)
	}

	format, mime := screenshotFormat(p.cfg.GetFormat())
	data, err := panel.Screenshot(format, p.cfg.GetQuality())
	if err != nil {
		return Message{}, fmt.Errorf("render: capture app %s: %w", appID, err)
	}

	return Message{Image: data, MIME: mime}, nil
}

// passAgeGate drives the interactive age-check form when the cookies alone
// did not bypass it.
func (p *PageShooter) passAgeGate(page *rod.Page) error {
	has, yearSelect, err := page.Has("#ageYear")
	if err != nil || !has {
		return nil
	}

	if err := yearSelect.Select([]string{ageGateBirthYear}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("render: select birth year: %w", err)
	}
	if _, err := page.Eval(`() => ViewProductPage()`); err != nil {
		return fmt.Errorf("render: submit age gate: %w", err)
	}
	if err := page.Timeout(p.cfg.GetNavigationTimeout()).WaitLoad(); err != nil {
		return fmt.Errorf("render: wait after age gate: %w", err)
	}
	_ = page.Timeout(p.cfg.GetNavigationTimeout()).WaitIdle(p.cfg.GetNavigationTimeout())
	return nil
}

// Close releases the page and browser. Safe to call more than once and
// concurrently with an in-flight render; the render finishes first because
// both paths hold the mutex.
func (p *PageShooter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.page != nil {
		_ = p.page.Close()
		p.page = nil
	}
	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	if err != nil {
		return fmt.Errorf("render: close browser: %w", err)
	}
	return nil
}

func ageGateCookies() []*proto.NetworkCookieParam {
	names := map[string]string{
		"birthtime":            ageGateBirthEpoch,
		"lastagecheckage":      ageGateLastCheck,
		"wants_mature_content": "1",
	}
	cookies := make([]*proto.NetworkCookieParam, 0, len(names))
	for name, value := range names {
		cookies = append(cookies, &proto.NetworkCookieParam{
			Name:   name,
			Value:  value,
			Domain: storeCookieDomain,
			Path:   "/",
		})
	}
	return cookies
}

func screenshotFormat(format string) (proto.PageCaptureScreenshotFormat, string) {
	if format == "jpeg" {
		return proto.PageCaptureScreenshotFormatJpeg, "image/jpeg"
	}
	return proto.PageCaptureScreenshotFormatPng, "image/png"
}
