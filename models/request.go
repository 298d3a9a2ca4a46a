package models

// GenerateRequest is the payload for POST /api/generate-title.
type GenerateRequest struct {
	// ProductKeywords is the core keyword set. Required.
	ProductKeywords string `json:"product_keywords" binding:"required"`

	// Brand, Category and SellingPoints only apply to single-title mode.
	Brand         string `json:"brand,omitempty"`
	Category      string `json:"category,omitempty"`
	SellingPoints string `json:"selling_points,omitempty"`

	// Mode selects "multi" (default, five titles) or "single".
	Mode string `json:"mode,omitempty" binding:"omitempty,oneof=multi single"`

	// Language overrides the target language tag of the titles.
	Language string `json:"language,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *GenerateRequest) Defaults() {
	if r.Mode == "" {
		r.Mode = "multi"
	}
}

// SearchRequest is the payload for POST /api/search.
type SearchRequest struct {
	// Keyword is submitted to the listing site's search box. Required.
	Keyword string `json:"keyword" binding:"required"`
}

// ListingRequest is the payload for POST /api/listing: a search, optionally
// followed by title generation for the same keyword.
type ListingRequest struct {
	Keyword string `json:"keyword" binding:"required"`

	// GenerateTitles runs title generation after the search succeeds.
	GenerateTitles bool `json:"generate_titles,omitempty"`

	Mode          string `json:"mode,omitempty" binding:"omitempty,oneof=multi single"`
	Brand         string `json:"brand,omitempty"`
	Category      string `json:"category,omitempty"`
	SellingPoints string `json:"selling_points,omitempty"`
	Language      string `json:"language,omitempty"`
}
