package models

// ProductRecord is one item scraped from a search-result page.
// Title and Price are always non-empty; Rating and ReviewCount are
// best-effort and nil when the page did not show them.
type ProductRecord struct {
	Title string `json:"title"`

	// Price is the raw currency-formatted text, e.g. "$24.99".
	Price string `json:"price"`

	// Rating is the leading numeral of "4.5 out of 5 stars".
	Rating *string `json:"rating,omitempty"`

	// ReviewCount has grouping separators stripped, e.g. "1234".
	ReviewCount *string `json:"reviews_count,omitempty"`
}
