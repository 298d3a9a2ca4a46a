package scraper

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/listingkit/models"
	"github.com/ysmood/gson"
)

// Session is the browser context and page owned by exactly one search run.
// It is never shared or pooled; Close releases every resource it holds.
type Session struct {
	incognito *rod.Browser
	page      *rod.Page
	router    *rod.HijackRouter
}

// withSession opens a session, runs fn with it, and closes the session on
// every exit path, including a panic inside fn.
func (s *Scraper) withSession(ctx context.Context, fn func(*Session) error) error {
	sess, err := s.openSession(ctx)
	if err != nil {
		return err
	}
	s.activeSessions.Add(1)
	defer func() {
		s.activeSessions.Add(-1)
		sess.Close()
	}()

	return fn(sess)
}

// openSession creates an incognito browser context with one page and
// configures its client identity. Everything here happens before the first
// navigation, so stealth JS and request blocking apply to it.
func (s *Scraper) openSession(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, categorizeError(err, "search canceled before session start")
	}

	incognito, err := s.browser.Incognito()
	if err != nil {
		return nil, models.NewError(
			models.ErrCodeBrowserCrash,
			"failed to create browser context",
			err,
		)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		return nil, models.NewError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}
	sess := &Session{incognito: incognito, page: page}

	// ── Client identity ─────────────────────────────────────────────
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      s.scraperCfg.UserAgent,
		AcceptLanguage: s.scraperCfg.AcceptLanguage,
	}); err != nil {
		sess.Close()
		return nil, models.NewError(
			models.ErrCodeBrowserCrash,
			"failed to set user agent",
			err,
		)
	}
	if len(s.scraperCfg.ExtraHeaders) > 0 {
		if err := (proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(s.scraperCfg.ExtraHeaders),
		}).Call(page); err != nil {
			sess.Close()
			return nil, models.NewError(
				models.ErrCodeBrowserCrash,
				"failed to set extra headers",
				err,
			)
		}
	}

	// ── Stealth injection ───────────────────────────────────────────
	if s.scraperCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── Request blocking ────────────────────────────────────────────
	sess.router = setupHijack(page, s.scraperCfg.BlockedResourceTypes, s.scraperCfg.BlockAds)

	return sess, nil
}

// Close stops request interception, closes the page and disposes of the
// incognito context. It uses the session's own context, so cleanup works
// even after the caller's context has expired.
func (sess *Session) Close() {
	if sess.router != nil {
		if err := sess.router.Stop(); err != nil {
			slog.Debug("session cleanup: hijack router stop failed", "error", err)
		}
	}
	if err := sess.page.Close(); err != nil {
		slog.Debug("session cleanup: page close failed", "error", err)
	}
	if err := sess.incognito.Close(); err != nil {
		slog.Warn("session cleanup: browser context close failed", "error", err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
