package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/listingkit/models"
	"golang.org/x/net/html"
)

// ParseResults maps a rendered search-result page to product records.
//
// One record is emitted per result item that has both a title and a price.
// Items missing either are skipped silently; rating and review count are
// filled in only when present and well-formed. Zero matching items is a
// valid, empty result.
func ParseResults(rawHTML string, sel *Selectors) ([]models.ProductRecord, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse result page: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	records := []models.ProductRecord{}
	doc.FindMatcher(sel.ResultItem).Each(func(_ int, item *goquery.Selection) {
		title := firstText(item, sel.Title)
		price := firstText(item, sel.Price)
		if title == "" || price == "" {
			return
		}

		rec := models.ProductRecord{Title: title, Price: price}
		if sel.Rating != nil {
			rec.Rating = parseRating(firstText(item, sel.Rating))
		}
		if sel.ReviewCount != nil {
			rec.ReviewCount = parseReviewCount(firstText(item, sel.ReviewCount))
		}
		records = append(records, rec)
	})

	return records, nil
}

// firstText returns the normalised text of the first descendant matching m,
// or "" when nothing matches.
func firstText(s *goquery.Selection, m cascadia.Selector) string {
	match := s.FindMatcher(m).First()
	if match.Length() == 0 {
		return ""
	}
	return normalizeText(match.Text())
}

// normalizeText collapses runs of whitespace (including NBSP) into single
// spaces, the way the browser renders innerText.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseRating keeps the part of "4.5 out of 5 stars" before " out of".
func parseRating(text string) *string {
	before, _, _ := strings.Cut(text, " out of")
	before = strings.TrimSpace(before)
	if before == "" {
		return nil
	}
	return &before
}

// parseReviewCount accepts "1,234" as "1234". Text that does not start with
// a digit ("New", "Sponsored") is not a review count.
func parseReviewCount(text string) *string {
	if text == "" || text[0] < '0' || text[0] > '9' {
		return nil
	}
	count := strings.ReplaceAll(text, ",", "")
	return &count
}
