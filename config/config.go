package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Browser    BrowserConfig
	Scraper    ScraperConfig
	Site       SiteConfig
	Generation GenerationConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
	Metrics    MetricsConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 3000
	Mode string // "debug", "release", "test"; default: "release"

	// StaticDir is served as the frontend, with index.html as the fallback
	// for unknown GET routes. Set LISTINGKIT_STATIC_DIR="" to disable.
	StaticDir string // default: "frontend"

	// CORSOrigins lists allowed origins. "*" allows any origin.
	CORSOrigins []string // default: ["*"]
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// ScraperConfig controls how a single search run behaves.
type ScraperConfig struct {
	// NavigationTimeout bounds each navigation phase (entry page, result page).
	NavigationTimeout time.Duration // default: 30s

	// UserAgent is the client identity presented to the listing site.
	UserAgent string

	// AcceptLanguage is sent with every request of the session.
	AcceptLanguage string // default: "en-US,en;q=0.9"

	// Stealth injects anti-automation evasions before navigation.
	Stealth bool // default: true

	// SnapshotPath is where the diagnostic screenshot of the result page is
	// written. Empty disables the snapshot.
	SnapshotPath string // default: "search_results.png"

	// BlockedResourceTypes lists resource types the session never loads.
	// default: ["Font", "Media"]
	BlockedResourceTypes []string

	// BlockAds drops requests to well-known ad and tracking domains.
	BlockAds bool // default: true

	// ExtraHeaders are sent with every request of the session, e.g. a Referer.
	// Format: "Name=value;Name2=value2".
	ExtraHeaders map[string]string
}

// SiteConfig describes the listing site and its structural markers.
type SiteConfig struct {
	// EntryURL is the page that hosts the search widget.
	EntryURL string // default: "https://www.amazon.com"

	SearchInput  string
	SearchSubmit string // empty: submit with the Enter key
	ResultItem   string
	Title        string
	Price        string
	Rating       string // empty: no rating extracted
	ReviewCount  string // empty: no review count extracted
}

// GenerationConfig controls the text-generation endpoint.
type GenerationConfig struct {
	// APIKey is the bearer credential. Empty makes every generation call
	// fail with an auth-config error before any network I/O.
	APIKey string

	// BaseURL is the OpenAI-compatible endpoint. A full
	// ".../chat/completions" URL is accepted as well.
	BaseURL string // default: "https://api.deepseek.com"

	// Model is the model name sent with every request.
	Model string // default: "deepseek-chat"

	// Timeout bounds a single endpoint round-trip.
	Timeout time.Duration // default: 30s

	// Language is the default target language tag for generated titles.
	Language string // default: "en"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting of the HTTP API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key or client IP.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per identity.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool // default: true
}

// Load reads configuration from environment variables with sane defaults.
// Variables from .env.local and .env are loaded first; values already present
// in the process environment win.
func Load() *Config {
	loadEnvFiles()

	return &Config{
		Server: ServerConfig{
			Host:        envOr("LISTINGKIT_HOST", "0.0.0.0"),
			Port:        envIntOr("LISTINGKIT_PORT", 3000),
			Mode:        envOr("LISTINGKIT_MODE", "release"),
			StaticDir:   envLookupOr("LISTINGKIT_STATIC_DIR", "frontend"),
			CORSOrigins: envSliceOr("LISTINGKIT_CORS_ORIGINS", []string{"*"}),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("LISTINGKIT_HEADLESS", true),
			NoSandbox:  envBoolOr("LISTINGKIT_NO_SANDBOX", false),
			BrowserBin: os.Getenv("LISTINGKIT_BROWSER_BIN"),
		},
		Scraper: ScraperConfig{
			NavigationTimeout:    envDurationOr("LISTINGKIT_NAV_TIMEOUT", 30*time.Second),
			UserAgent:            envOr("LISTINGKIT_USER_AGENT", DefaultUserAgent),
			AcceptLanguage:       envOr("LISTINGKIT_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
			Stealth:              envBoolOr("LISTINGKIT_STEALTH", true),
			SnapshotPath:         envOr("LISTINGKIT_SNAPSHOT_PATH", "search_results.png"),
			BlockedResourceTypes: envSliceOr("LISTINGKIT_BLOCKED_RESOURCES", []string{"Font", "Media"}),
			BlockAds:             envBoolOr("LISTINGKIT_BLOCK_ADS", true),
			ExtraHeaders:         envHeaders("LISTINGKIT_EXTRA_HEADERS"),
		},
		Site: SiteConfig{
			EntryURL:     envOr("LISTINGKIT_SITE_URL", "https://www.amazon.com"),
			SearchInput:  envOr("LISTINGKIT_SEL_SEARCH_INPUT", "#twotabsearchtextbox"),
			SearchSubmit: envLookupOr("LISTINGKIT_SEL_SEARCH_SUBMIT", "#nav-search-submit-button"),
			ResultItem:   envOr("LISTINGKIT_SEL_RESULT_ITEM", "div[data-component-type='s-search-result']"),
			Title:        envOr("LISTINGKIT_SEL_TITLE", "h2 a span"),
			Price:        envOr("LISTINGKIT_SEL_PRICE", ".a-price .a-offscreen"),
			Rating:       envLookupOr("LISTINGKIT_SEL_RATING", ".a-icon-alt"),
			ReviewCount:  envLookupOr("LISTINGKIT_SEL_REVIEW_COUNT", "span.a-size-base"),
		},
		Generation: GenerationConfig{
			APIKey:   envOr("LISTINGKIT_LLM_API_KEY", os.Getenv("DEEPSEEK_API_KEY")),
			BaseURL:  envOr("LISTINGKIT_LLM_BASE_URL", envOr("DEEPSEEK_API_URL", "https://api.deepseek.com")),
			Model:    envOr("LISTINGKIT_LLM_MODEL", "deepseek-chat"),
			Timeout:  envDurationOr("LISTINGKIT_LLM_TIMEOUT", 30*time.Second),
			Language: envOr("LISTINGKIT_LANGUAGE", "en"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("LISTINGKIT_AUTH_ENABLED", false),
			APIKeys: envSliceOr("LISTINGKIT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("LISTINGKIT_RATE_RPS", 2.0),
			Burst:             envIntOr("LISTINGKIT_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("LISTINGKIT_LOG_LEVEL", "info"),
			Format: envOr("LISTINGKIT_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: envBoolOr("LISTINGKIT_METRICS_ENABLED", true),
		},
	}
}

// DefaultUserAgent is a desktop Chrome identity string.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Validate ensures the configuration values are coherent. A missing
// generation credential is not a validation error: the generation client
// reports it per call.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Scraper.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive")
	}
	if c.Scraper.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	u, err := url.Parse(c.Site.EntryURL)
	if err != nil {
		return fmt.Errorf("invalid site URL: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("site URL must include a host")
	}
	if c.Site.SearchInput == "" || c.Site.ResultItem == "" || c.Site.Title == "" || c.Site.Price == "" {
		return fmt.Errorf("search input, result item, title and price selectors are required")
	}
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("generation timeout must be positive")
	}
	if c.Generation.Model == "" {
		return fmt.Errorf("generation model cannot be empty")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("auth enabled but no API keys configured")
	}
	return nil
}

// loadEnvFiles loads .env.local then .env. Missing files are ignored.
func loadEnvFiles() {
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: load %s: %v\n", f, err)
		}
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envLookupOr is envOr for settings where an explicitly empty value means
// "off" rather than "use the default".
func envLookupOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

func envHeaders(key string) map[string]string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(v, ";") {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers
}
