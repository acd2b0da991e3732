package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures all tunable settings for the steaminfo bot.
type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Steam   SteamConfig   `yaml:"steam"`
	Render  RenderConfig  `yaml:"render"`
	Browser BrowserConfig `yaml:"browser"`
}

// BotConfig configures the conversation surface.
type BotConfig struct {
	// Discord bot token. Required unless running in MCP mode.
	Token string `yaml:"token"`
	// Command name the bot listens for (invoked as "!<command> <term>").
	Command string `yaml:"command"`
	// Reply language for the built-in locale tables (e.g., "en", "zh-CN").
	Language string `yaml:"language"`
	// Optional log file. Required in MCP mode where stderr would corrupt the protocol stream.
	LogFile string `yaml:"log_file"`
	// Middleware controls whether pasted store URLs trigger a render directly (default: true).
	Middleware *bool `yaml:"middleware"`
	// How long to wait for a numbered-list reply (e.g., "30s").
	PromptTimeout string `yaml:"prompt_timeout"`
}

// SteamConfig configures the storefront endpoints.
type SteamConfig struct {
	// Base store URL. Overridable for tests.
	StoreURL string `yaml:"store_url"`
	// Two-letter country code sent as "cc".
	Region string `yaml:"region"`
	// Storefront language sent as "l" (e.g., "english", "schinese").
	Locale string `yaml:"locale"`
	// Extra suggestion-endpoint parameters merged over the built-in defaults.
	SearchParams map[string]string `yaml:"search_params"`
	// HTTP timeout for storefront requests (e.g., "15s").
	RequestTimeout string `yaml:"request_timeout"`
}

// RenderConfig selects the default output representation.
type RenderConfig struct {
	// One of "text", "composite", "screenshot".
	Mode string `yaml:"mode"`
	// Fuzzy controls top-candidate substring auto-selection (default: true).
	Fuzzy *bool `yaml:"fuzzy"`
}

// BrowserConfig configures how we attach to or launch Chrome for Rod.
// Screenshot mode is available only when debugger_url or launch is set.
type BrowserConfig struct {
	// Control endpoint for Rod (e.g., ws://localhost:9222).
	DebuggerURL string `yaml:"debugger_url"`
	// Optional launch command to start Chrome (e.g., ["chrome", "--no-sandbox"]).
	Launch []string `yaml:"launch"`
	// Headless controls whether Chrome runs in headless mode (default: true).
	Headless *bool `yaml:"headless"`
	// Screenshot encoding: "png" or "jpeg".
	Format string `yaml:"format"`
	// JPEG quality 1-100. Ignored for png.
	Quality int `yaml:"quality"`
	// Navigation timeout per page load (e.g., "15s").
	NavigationTimeout string `yaml:"navigation_timeout"`
	// How long to wait for the detail panel before the render fails (e.g., "5s").
	ElementTimeout string `yaml:"element_timeout"`
}

// DefaultConfig provides reasonable defaults for local development.
func DefaultConfig() Config {
	return Config{
		Bot: BotConfig{
			Command:       "steaminfo",
			Language:      "en",
			LogFile:       "steaminfo.log",
			PromptTimeout: "30s",
		},
		Steam: SteamConfig{
			StoreURL:       "https://store.steampowered.com",
			Region:         "US",
			Locale:         "english",
			RequestTimeout: "15s",
		},
		Render: RenderConfig{
			Mode: "text",
		},
		Browser: BrowserConfig{
			Format:            "png",
			Quality:           90,
			NavigationTimeout: "15s",
			ElementTimeout:    "5s",
		},
	}
}

// Load reads YAML config from disk and overlays defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, errors.New("config path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate ensures required fields exist so the bot can start deterministically.
func (c *Config) Validate() error {
	if c.Bot.Command == "" {
		return errors.New("bot.command is required")
	}
	if c.Steam.StoreURL == "" {
		return errors.New("steam.store_url is required")
	}
	switch c.Render.Mode {
	case "", "text", "composite", "screenshot":
	default:
		return fmt.Errorf("render.mode must be text, composite, or screenshot, got %q", c.Render.Mode)
	}
	switch c.Browser.Format {
	case "", "png", "jpeg":
	default:
		return fmt.Errorf("browser.format must be png or jpeg, got %q", c.Browser.Format)
	}
	return nil
}

// GetPromptTimeout returns the parsed reply-wait timeout with a sane default.
func (b BotConfig) GetPromptTimeout() time.Duration {
	return parseDurationOr(b.PromptTimeout, 30*time.Second)
}

// IsMiddleware returns whether the URL-trigger middleware is active (default: true).
func (b BotConfig) IsMiddleware() bool {
	if b.Middleware == nil {
		return true
	}
	return *b.Middleware
}

// GetRequestTimeout returns the parsed storefront HTTP timeout with a sane default.
func (s SteamConfig) GetRequestTimeout() time.Duration {
	return parseDurationOr(s.RequestTimeout, 15*time.Second)
}

// IsFuzzy returns whether fuzzy auto-selection is active (default: true).
func (r RenderConfig) IsFuzzy() bool {
	if r.Fuzzy == nil {
		return true
	}
	return *r.Fuzzy
}

// IsConfigured reports whether a browser capability was granted at all.
func (b BrowserConfig) IsConfigured() bool {
	return b.DebuggerURL != "" || len(b.Launch) > 0
}

// IsHeadless returns whether Chrome should run in headless mode (default: true).
func (b BrowserConfig) IsHeadless() bool {
	if b.Headless == nil {
		return true
	}
	return *b.Headless
}

// GetFormat returns the screenshot encoding with a sane default.
func (b BrowserConfig) GetFormat() string {
	if b.Format == "" {
		return "png"
	}
	return b.Format
}

// GetQuality returns the JPEG quality clamped to 1-100.
func (b BrowserConfig) GetQuality() int {
	if b.Quality <= 0 {
		return 90
	}
	if b.Quality > 100 {
		return 100
	}
	return b.Quality
}

// GetNavigationTimeout returns the parsed navigation timeout with a sane default.
func (b BrowserConfig) GetNavigationTimeout() time.Duration {
	return parseDurationOr(b.NavigationTimeout, 15*time.Second)
}

// GetElementTimeout returns the parsed detail-panel wait timeout with a sane default.
func (b BrowserConfig) GetElementTimeout() time.Duration {
	return parseDurationOr(b.ElementTimeout, 5*time.Second)
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
