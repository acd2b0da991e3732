package render

import "fmt"

// Mode selects the output representation for one render.
type Mode int

const (
	// ModeText is a plain-text summary with no image reference.
	ModeText Mode = iota
	// ModeComposite is the text summary plus the title's header image.
	ModeComposite
	// ModeScreenshot is a visual capture of the store page's detail panel.
	ModeScreenshot
)

// ParseMode maps a config or flag string onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "text":
		return ModeText, nil
	case "composite":
		return ModeComposite, nil
	case "screenshot":
		return ModeScreenshot, nil
	default:
		return ModeText, fmt.Errorf("render: unknown mode %q", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeComposite:
		return "composite"
	case ModeScreenshot:
		return "screenshot"
	default:
		return "text"
	}
}
