// Package render produces the three reply representations for a selected
// title: plain text, text plus header image, or a screenshot of the store
// page's detail panel.
package render

import (
	"context"
	"log"
)

// Screenshotter is the capability-gated visual renderer. It is nil when no
// browser was granted at startup.
type Screenshotter interface {
	Render(ctx context.Context, appID string) (Message, error)
	Ready() bool
}

// Dispatcher selects the concrete renderer for a mode. The selection happens
// per call; capability detection happens once, at construction.
type Dispatcher struct {
	text        *TextRenderer
	screenshots Screenshotter
	defaultMode Mode
}

// NewDispatcher wires the mode dispatch. screenshots may be nil.
func NewDispatcher(text *TextRenderer, screenshots Screenshotter, defaultMode Mode) *Dispatcher {
	return &Dispatcher{text: text, screenshots: screenshots, defaultMode: defaultMode}
}

// DefaultMode returns the configured process-wide default.
func (d *Dispatcher) DefaultMode() Mode {
	return d.defaultMode
}

// Render produces the reply for appID in the given mode. Screenshot mode
// falls back to composite when the browser capability is unavailable rather
// than failing the whole render.
func (d *Dispatcher) Render(ctx context.Context, appID string, mode Mode) (Message, error) {
	if mode == ModeScreenshot {
		if d.screenshots != nil && d.screenshots.Ready() {
			return d.screenshots.Render(ctx, appID)
		}
		log.Printf("render: screenshot mode requested for %s but browser unavailable, falling back to composite", appID)
		mode = ModeComposite
	}
	return d.text.Render(ctx, appID, mode)
}
