package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// generateRequest mirrors the listingkit generate-title request.
type generateRequest struct {
	ProductKeywords string `json:"product_keywords"`
	Brand           string `json:"brand,omitempty"`
	Category        string `json:"category,omitempty"`
	SellingPoints   string `json:"selling_points,omitempty"`
	Mode            string `json:"mode,omitempty"`
	Language        string `json:"language,omitempty"`
}

// generateResponse mirrors the listingkit generate-title response.
type generateResponse struct {
	Success bool      `json:"success"`
	Titles  []string  `json:"titles"`
	Error   *apiError `json:"error"`
}

// searchResponse mirrors the listingkit search response.
type searchResponse struct {
	Success  bool `json:"success"`
	Products []struct {
		Title        string  `json:"title"`
		Price        string  `json:"price"`
		Rating       *string `json:"rating"`
		ReviewsCount *string `json:"reviews_count"`
	} `json:"products"`
	Count int       `json:"count"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func main() {
	apiURL := strings.TrimRight(os.Getenv("LISTINGKIT_API_URL"), "/")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:3000"
	}
	// Optional: only needed when the server runs with auth enabled.
	apiKey := os.Getenv("LISTINGKIT_API_KEY")

	s := newServer(apiURL, apiKey)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(apiURL, apiKey string) *server.MCPServer {
	s := server.NewMCPServer(
		"listingkit",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	generateTool := mcp.NewTool("generate_titles",
		mcp.WithDescription("Generate SEO-friendly product listing titles from keywords. Multi mode returns five titles; single mode returns one title that also uses brand, category and selling points."),
		mcp.WithString("product_keywords",
			mcp.Required(),
			mcp.Description("Core product keywords, e.g. 'wireless earbuds'"),
		),
		mcp.WithString("mode",
			mcp.Description("'multi' (default, five titles) or 'single'"),
			mcp.Enum("multi", "single"),
		),
		mcp.WithString("brand", mcp.Description("Brand name (single mode)")),
		mcp.WithString("category", mcp.Description("Product category (single mode)")),
		mcp.WithString("selling_points", mcp.Description("Key selling points (single mode)")),
		mcp.WithString("language", mcp.Description("Target language tag, e.g. 'en' or 'de'")),
	)
	s.AddTool(generateTool, handleGenerateTitles(apiURL, apiKey))

	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search the configured listing site with a headless browser and return the products on the first result page (title, price, rating, review count)."),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Search keyword typed into the site's search box"),
		),
	)
	s.AddTool(searchTool, handleSearchProducts(apiURL, apiKey))

	return s
}

// apiPost sends a POST request to the listingkit API and returns the status
// and response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	return resp.StatusCode, raw, err
}

func handleGenerateTitles(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keywords, err := request.RequireString("product_keywords")
		if err != nil || strings.TrimSpace(keywords) == "" {
			return mcp.NewToolResultError("product_keywords is required"), nil
		}

		status, raw, err := apiPost(ctx, client, apiURL, apiKey, "/api/generate-title", generateRequest{
			ProductKeywords: keywords,
			Brand:           request.GetString("brand", ""),
			Category:        request.GetString("category", ""),
			SellingPoints:   request.GetString("selling_points", ""),
			Mode:            request.GetString("mode", ""),
			Language:        request.GetString("language", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp generateResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response (status %d): %v", status, err)), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText(resp.Error, status)), nil
		}

		var b strings.Builder
		for i, t := range resp.Titles {
			fmt.Fprintf(&b, "%d. %s\n", i+1, t)
		}
		return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
	}
}

func handleSearchProducts(apiURL, apiKey string) server.ToolHandlerFunc {
	// Two navigations, each bounded server-side.
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keyword, err := request.RequireString("keyword")
		if err != nil || strings.TrimSpace(keyword) == "" {
			return mcp.NewToolResultError("keyword is required"), nil
		}

		status, raw, err := apiPost(ctx, client, apiURL, apiKey, "/api/search", map[string]string{"keyword": keyword})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp searchResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response (status %d): %v", status, err)), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText(resp.Error, status)), nil
		}
		if resp.Count == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No products found for %q.", keyword)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%d products for %q:\n", resp.Count, keyword)
		for i, p := range resp.Products {
			fmt.Fprintf(&b, "\n%d. %s\n   Price: %s", i+1, p.Title, p.Price)
			if p.Rating != nil {
				fmt.Fprintf(&b, " | Rating: %s", *p.Rating)
			}
			if p.ReviewsCount != nil {
				fmt.Fprintf(&b, " | Reviews: %s", *p.ReviewsCount)
			}
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func errorText(e *apiError, status int) string {
	if e == nil {
		return fmt.Sprintf("request failed with status %d", status)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
