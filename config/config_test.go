package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsValid(t *testing.T) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Site.EntryURL != "https://www.amazon.com" {
		t.Errorf("EntryURL = %q", cfg.Site.EntryURL)
	}
	if cfg.Generation.Language != "en" {
		t.Errorf("Language = %q, want en", cfg.Generation.Language)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LISTINGKIT_PORT", "9090")
	t.Setenv("LISTINGKIT_NAV_TIMEOUT", "12s")
	t.Setenv("LISTINGKIT_BLOCKED_RESOURCES", "Image, Font ,")
	t.Setenv("LISTINGKIT_SEL_TITLE", "h2 span")

	cfg := Load()
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Scraper.NavigationTimeout != 12*time.Second {
		t.Errorf("NavigationTimeout = %v, want 12s", cfg.Scraper.NavigationTimeout)
	}
	if got := strings.Join(cfg.Scraper.BlockedResourceTypes, ","); got != "Image,Font" {
		t.Errorf("BlockedResourceTypes = %q, want Image,Font", got)
	}
	if cfg.Site.Title != "h2 span" {
		t.Errorf("Title selector = %q", cfg.Site.Title)
	}
}

func TestLoadEmptyValuesDisableOptionalSettings(t *testing.T) {
	t.Setenv("LISTINGKIT_SEL_SEARCH_SUBMIT", "")
	t.Setenv("LISTINGKIT_SEL_RATING", "")
	t.Setenv("LISTINGKIT_SEL_REVIEW_COUNT", " ")
	t.Setenv("LISTINGKIT_STATIC_DIR", "")
	// Required selectors still fall back when empty.
	t.Setenv("LISTINGKIT_SEL_TITLE", "")

	cfg := Load()
	if cfg.Site.SearchSubmit != "" || cfg.Site.Rating != "" || cfg.Site.ReviewCount != "" {
		t.Errorf("optional selectors = %q, %q, %q, want all empty",
			cfg.Site.SearchSubmit, cfg.Site.Rating, cfg.Site.ReviewCount)
	}
	if cfg.Server.StaticDir != "" {
		t.Errorf("StaticDir = %q, want empty", cfg.Server.StaticDir)
	}
	if cfg.Site.Title != "h2 a span" {
		t.Errorf("Title = %q, want default", cfg.Site.Title)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config without optional selectors should validate: %v", err)
	}
}

func TestLoadUnsetOptionalSettingsUseDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Site.SearchSubmit != "#nav-search-submit-button" || cfg.Site.Rating != ".a-icon-alt" {
		t.Errorf("selectors = %q, %q", cfg.Site.SearchSubmit, cfg.Site.Rating)
	}
	if cfg.Server.StaticDir != "frontend" {
		t.Errorf("StaticDir = %q, want frontend", cfg.Server.StaticDir)
	}
}

func TestLoadExtraHeaders(t *testing.T) {
	t.Setenv("LISTINGKIT_EXTRA_HEADERS", "Referer=https://www.google.com/; DNT = 1;broken;=x")

	got := Load().Scraper.ExtraHeaders
	want := map[string]string{"Referer": "https://www.google.com/", "DNT": "1"}
	if len(got) != len(want) {
		t.Fatalf("ExtraHeaders = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ExtraHeaders[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestLoadGenerationFallbackNames(t *testing.T) {
	t.Setenv("LISTINGKIT_LLM_API_KEY", "")
	t.Setenv("LISTINGKIT_LLM_BASE_URL", "")
	t.Setenv("DEEPSEEK_API_KEY", "sk-legacy")
	t.Setenv("DEEPSEEK_API_URL", "https://api.deepseek.com/chat/completions")

	cfg := Load()
	if cfg.Generation.APIKey != "sk-legacy" {
		t.Errorf("APIKey = %q, want sk-legacy", cfg.Generation.APIKey)
	}
	if cfg.Generation.BaseURL != "https://api.deepseek.com/chat/completions" {
		t.Errorf("BaseURL = %q", cfg.Generation.BaseURL)
	}

	t.Setenv("LISTINGKIT_LLM_API_KEY", "sk-new")
	if got := Load().Generation.APIKey; got != "sk-new" {
		t.Errorf("APIKey = %q, want sk-new", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port out of range",
			mutate:  func(cfg *Config) { cfg.Server.Port = 70000 },
			wantErr: "port",
		},
		{
			name:    "zero navigation timeout",
			mutate:  func(cfg *Config) { cfg.Scraper.NavigationTimeout = 0 },
			wantErr: "navigation timeout",
		},
		{
			name:    "site url without host",
			mutate:  func(cfg *Config) { cfg.Site.EntryURL = "http://" },
			wantErr: "site URL",
		},
		{
			name:    "missing price selector",
			mutate:  func(cfg *Config) { cfg.Site.Price = "" },
			wantErr: "selectors",
		},
		{
			name:    "negative generation timeout",
			mutate:  func(cfg *Config) { cfg.Generation.Timeout = -time.Second },
			wantErr: "generation timeout",
		},
		{
			name: "auth without keys",
			mutate: func(cfg *Config) {
				cfg.Auth.Enabled = true
				cfg.Auth.APIKeys = nil
			},
			wantErr: "API keys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
