package scraper

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/listingkit/config"
)

// Selectors is the table of structural markers for one listing site.
// Layout drift on the site is fixed here (or via LISTINGKIT_SEL_* env vars),
// nowhere else.
type Selectors struct {
	// Raw selector strings, used for browser-side lookups.
	SearchInput  string
	SearchSubmit string

	// Compiled matchers, used when mapping the rendered DOM to records.
	ResultItem  cascadia.Selector
	Title       cascadia.Selector
	Price       cascadia.Selector
	Rating      cascadia.Selector // nil when the site exposes no rating marker
	ReviewCount cascadia.Selector // nil when the site exposes no review marker
}

// NewSelectors compiles the site's selector table. An invalid selector is
// reported with the field it belongs to.
func NewSelectors(site config.SiteConfig) (*Selectors, error) {
	if site.SearchInput == "" {
		return nil, fmt.Errorf("selector search_input: empty")
	}
	if _, err := cascadia.Compile(site.SearchInput); err != nil {
		return nil, fmt.Errorf("selector search_input: %w", err)
	}
	if site.SearchSubmit != "" {
		if _, err := cascadia.Compile(site.SearchSubmit); err != nil {
			return nil, fmt.Errorf("selector search_submit: %w", err)
		}
	}

	sel := &Selectors{
		SearchInput:  site.SearchInput,
		SearchSubmit: site.SearchSubmit,
	}

	required := []struct {
		name string
		raw  string
		dst  *cascadia.Selector
	}{
		{"result_item", site.ResultItem, &sel.ResultItem},
		{"title", site.Title, &sel.Title},
		{"price", site.Price, &sel.Price},
	}
	for _, r := range required {
		if r.raw == "" {
			return nil, fmt.Errorf("selector %s: empty", r.name)
		}
		compiled, err := cascadia.Compile(r.raw)
		if err != nil {
			return nil, fmt.Errorf("selector %s: %w", r.name, err)
		}
		*r.dst = compiled
	}

	optional := []struct {
		name string
		raw  string
		dst  *cascadia.Selector
	}{
		{"rating", site.Rating, &sel.Rating},
		{"review_count", site.ReviewCount, &sel.ReviewCount},
	}
	for _, o := range optional {
		if o.raw == "" {
			continue
		}
		compiled, err := cascadia.Compile(o.raw)
		if err != nil {
			return nil, fmt.Errorf("selector %s: %w", o.name, err)
		}
		*o.dst = compiled
	}

	return sel, nil
}
