package scraper

import (
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/listingkit/config"
	"github.com/use-agent/listingkit/models"
)

// Scraper owns the Chrome process and runs listing searches against it.
// Every Extract call gets its own incognito session, so it is safe for
// concurrent use.
type Scraper struct {
	browser        *rod.Browser
	scraperCfg     config.ScraperConfig
	site           config.SiteConfig
	selectors      *Selectors
	activeSessions atomic.Int32
}

// NewScraper compiles the site's selector table and launches a browser.
func NewScraper(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig, site config.SiteConfig) (*Scraper, error) {
	selectors, err := NewSelectors(site)
	if err != nil {
		return nil, models.NewError(models.ErrCodeInvalidInput, "invalid site selectors", err)
	}

	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		if _, err := os.Stat(browserCfg.BrowserBin); err != nil {
			return nil, models.NewError(models.ErrCodeBrowserCrash, "browser binary not found", err)
		}
		l = l.Bin(browserCfg.BrowserBin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("window-size"), "1366,900")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	return &Scraper{
		browser:    browser,
		scraperCfg: scraperCfg,
		site:       site,
		selectors:  selectors,
	}, nil
}

// ActiveSessions reports how many searches currently hold a session.
func (s *Scraper) ActiveSessions() int {
	return int(s.activeSessions.Load())
}

// Connected reports whether the browser still answers protocol calls.
func (s *Scraper) Connected() bool {
	_, err := proto.BrowserGetVersion{}.Call(s.browser)
	return err == nil
}

// Close kills the browser process.
// Call this on graceful shutdown to prevent zombie Chrome processes.
func (s *Scraper) Close() {
	slog.Info("scraper shutting down: closing browser")
	if err := s.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	slog.Info("scraper shutdown complete")
}
