package scraper

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/listingkit/models"
)

// Extract runs one search on the listing site and returns the products on
// the first result page.
//
// Lifecycle:
//
//  1. Validate query         – no browser work for an empty query
//  2. Open session           – fresh incognito context + page, released by defer
//  3. Entry navigation       – idle waiter registered before Navigate
//  4. Submit search          – input query, click submit (or press Enter)
//  5. Snapshot               – best-effort screenshot, never fails the run
//  6. Extract                – page.HTML() mapped by ParseResults
//
// Steps 3 and 4 are each bounded by NavigationTimeout; any failure there is a
// NAVIGATION_FAILED error. An empty product list is a valid result.
func (s *Scraper) Extract(ctx context.Context, query string) ([]models.ProductRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewError(models.ErrCodeInvalidInput, "search keyword is required", nil)
	}

	start := time.Now()
	var records []models.ProductRecord

	err := s.withSession(ctx, func(sess *Session) error {
		if err := s.openEntry(ctx, sess.page); err != nil {
			return err
		}
		if err := s.submitSearch(ctx, sess.page, query); err != nil {
			return err
		}

		s.snapshot(ctx, sess.page)

		rawHTML, err := sess.page.Context(ctx).HTML()
		if err != nil {
			return categorizeError(err, "failed to read result page")
		}

		records, err = ParseResults(rawHTML, s.selectors)
		if err != nil {
			return categorizeError(err, "failed to parse result page")
		}
		return nil
	})
	if err != nil {
		slog.Warn("search failed",
			"keyword", query,
			"kind", models.KindOf(err),
			"error", err,
		)
		return nil, err
	}

	if len(records) == 0 {
		slog.Warn("search returned no products; result markers may have changed",
			"keyword", query,
			"entry", s.site.EntryURL,
		)
	}
	slog.Info("search complete",
		"keyword", query,
		"count", len(records),
		"duration", time.Since(start),
	)
	return records, nil
}

// openEntry loads the site's entry page and waits for network quiescence.
func (s *Scraper) openEntry(ctx context.Context, page *rod.Page) error {
	navCtx, cancel := context.WithTimeout(ctx, s.scraperCfg.NavigationTimeout)
	defer cancel()
	p := page.Context(navCtx)

	// The waiter must exist before Navigate, or in-flight requests are missed
	// and the wait returns on the previous page's state.
	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := p.Navigate(s.site.EntryURL); err != nil {
		return categorizeError(err, "entry page navigation failed")
	}
	wait()

	if err := navCtx.Err(); err != nil {
		return categorizeError(err, "entry page did not settle")
	}
	slog.Debug("entry page loaded", "url", s.site.EntryURL)
	return nil
}

// submitSearch enters the query into the search box, submits it, and waits
// for the result page to settle.
func (s *Scraper) submitSearch(ctx context.Context, page *rod.Page, query string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.scraperCfg.NavigationTimeout)
	defer cancel()
	p := page.Context(navCtx)

	if err := typeInto(p, s.selectors.SearchInput, query); err != nil {
		return categorizeError(err, "search input unavailable")
	}

	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := submit(p, s.selectors.SearchInput, s.selectors.SearchSubmit); err != nil {
		return categorizeError(err, "search submit failed")
	}
	wait()

	if err := navCtx.Err(); err != nil {
		return categorizeError(err, "result page did not settle")
	}
	return nil
}

// categorizeError classifies a browser-side failure. Everything that goes
// wrong while driving the page is a navigation failure; cancellation keeps
// its cause in the chain so callers can still match context.Canceled.
func categorizeError(err error, msg string) *models.Error {
	if errors.Is(err, context.Canceled) {
		return models.NewError(models.ErrCodeNavigation, "search canceled", err)
	}
	return models.NewError(models.ErrCodeNavigation, msg, err)
}
