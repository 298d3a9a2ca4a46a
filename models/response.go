package models

// GenerateResponse is the response for POST /api/generate-title.
type GenerateResponse struct {
	// Success indicates whether titles were generated.
	Success bool `json:"success"`

	// Titles holds the generated titles in endpoint order.
	Titles []string `json:"titles,omitempty"`

	// Timing reports the end-to-end duration.
	Timing *TimingInfo `json:"timing,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// SearchResponse is the response for POST /api/search.
type SearchResponse struct {
	Success  bool            `json:"success"`
	Products []ProductRecord `json:"products"`
	Count    int             `json:"count"`
	Timing   *TimingInfo     `json:"timing,omitempty"`
	Error    *ErrorDetail    `json:"error,omitempty"`
}

// ListingResponse is the response for POST /api/listing.
type ListingResponse struct {
	Success  bool            `json:"success"`
	Products []ProductRecord `json:"products"`
	Count    int             `json:"count"`
	Titles   []string        `json:"titles,omitempty"`
	Timing   *TimingInfo     `json:"timing,omitempty"`
	Error    *ErrorDetail    `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent serving a request.
type TimingInfo struct {
	TotalMs int64 `json:"total_ms"`
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status           string `json:"status"` // "healthy" or "degraded"
	Uptime           string `json:"uptime"`
	Version          string `json:"version"`
	BrowserConnected bool   `json:"browser_connected"`
	ActiveSessions   int    `json:"active_sessions"`
	GenerationReady  bool   `json:"generation_ready"`
}

// ErrorResponse is the body of middleware rejections (auth, rate limit).
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}
