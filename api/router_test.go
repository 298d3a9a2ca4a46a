package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/listingkit/config"
	"github.com/use-agent/listingkit/llm"
	"github.com/use-agent/listingkit/models"
	"github.com/use-agent/listingkit/pipeline"
)

type fakeExtractor struct{}

func (fakeExtractor) Extract(context.Context, string) ([]models.ProductRecord, error) {
	return []models.ProductRecord{{Title: "Lamp", Price: "$9.99"}}, nil
}

type fakeGenerator struct{}

func (fakeGenerator) Generate(_ context.Context, req llm.Request) (*llm.Result, error) {
	return &llm.Result{Mode: req.Mode, Titles: []string{"Title"}}, nil
}

type fakeBrowser struct{}

func (fakeBrowser) Connected() bool     { return true }
func (fakeBrowser) ActiveSessions() int { return 0 }

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Server.Mode = gin.TestMode
	cfg.Server.StaticDir = ""
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Auth = config.AuthConfig{}
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100}
	return cfg
}

func newTestRouter(cfg *config.Config) *gin.Engine {
	metrics := pipeline.NewMetrics()
	return NewRouter(Deps{
		Pipeline:        pipeline.New(fakeExtractor{}, fakeGenerator{}, metrics),
		Browser:         fakeBrowser{},
		GenerationReady: true,
		Metrics:         metrics,
	}, cfg, time.Now())
}

func do(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(testConfig())

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodPost, "/api/generate-title", `{"product_keywords":"tech gadgets"}`, http.StatusOK},
		{http.MethodPost, "/api/generate-title", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/search", `{"keyword":"lamp"}`, http.StatusOK},
		{http.MethodPost, "/api/listing", `{"keyword":"lamp","generate_titles":true}`, http.StatusOK},
		{http.MethodGet, "/api/nope", "", http.StatusNotFound},
		{http.MethodGet, "/metrics", "", http.StatusOK},
	}
	for _, tt := range tests {
		w := do(r, tt.method, tt.path, tt.body, nil)
		if w.Code != tt.want {
			t.Errorf("%s %s = %d, want %d (body %s)", tt.method, tt.path, w.Code, tt.want, w.Body.String())
		}
	}
}

func TestRouter_ListingRunsSearchThenTitles(t *testing.T) {
	r := newTestRouter(testConfig())
	w := do(r, http.MethodPost, "/api/listing", `{"keyword":"lamp","generate_titles":true}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	for _, want := range []string{`"title":"Lamp"`, `"titles":["Title"]`, `"count":1`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("body missing %s: %s", want, w.Body.String())
		}
	}
}

func TestRouter_MetricsExposePipelineCounters(t *testing.T) {
	r := newTestRouter(testConfig())
	do(r, http.MethodPost, "/api/search", `{"keyword":"lamp"}`, nil)

	w := do(r, http.MethodGet, "/metrics", "", nil)
	if !strings.Contains(w.Body.String(), "listingkit_products_extracted_total 1") {
		t.Errorf("metrics output missing product counter:\n%s", w.Body.String())
	}
}

func TestRouter_RequestID(t *testing.T) {
	r := newTestRouter(testConfig())

	w := do(r, http.MethodGet, "/api/health", "", nil)
	if id := w.Header().Get("X-Request-ID"); len(id) != 36 {
		t.Errorf("generated request id = %q, want uuid", id)
	}

	w = do(r, http.MethodGet, "/api/health", "", map[string]string{"X-Request-ID": "abc-123"})
	if id := w.Header().Get("X-Request-ID"); id != "abc-123" {
		t.Errorf("request id = %q, want echo of caller's id", id)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CORSOrigins = []string{"https://app.example.com"}
	r := newTestRouter(cfg)

	w := do(r, http.MethodOptions, "/api/generate-title", "", map[string]string{"Origin": "https://app.example.com"})
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}

	w = do(r, http.MethodGet, "/api/health", "", map[string]string{"Origin": "https://evil.example.com"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got Allow-Origin %q", got)
	}
}

func TestRouter_Auth(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{"k1"}}
	r := newTestRouter(cfg)
	body := `{"keyword":"lamp"}`

	if w := do(r, http.MethodPost, "/api/search", body, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/search", body, map[string]string{"X-API-Key": "wrong"}); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/search", body, map[string]string{"Authorization": "Bearer k1"}); w.Code != http.StatusOK {
		t.Errorf("valid key: status = %d, want 200", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health must bypass auth, got %d", w.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}
	r := newTestRouter(cfg)

	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, do(r, http.MethodPost, "/api/search", `{"keyword":"lamp"}`, nil).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestRouter_StaticFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>app</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Server.StaticDir = dir
	r := newTestRouter(cfg)

	if w := do(r, http.MethodGet, "/app.js", "", nil); !strings.Contains(w.Body.String(), "console.log") {
		t.Errorf("/app.js body = %q", w.Body.String())
	}
	if w := do(r, http.MethodGet, "/products/123", "", nil); !strings.Contains(w.Body.String(), "<h1>app</h1>") {
		t.Errorf("unknown route should fall back to index.html, got %d %q", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/../../etc/passwd", "", nil); strings.Contains(w.Body.String(), "root:") {
		t.Error("path traversal escaped the static dir")
	}
	if w := do(r, http.MethodGet, "/api/unknown", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("/api/unknown = %d, want 404", w.Code)
	}
}

func TestRouter_DefaultFrontendDirWithoutIndex(t *testing.T) {
	cfg := testConfig()
	cfg.Server.StaticDir = filepath.Join(t.TempDir(), "frontend")
	r := newTestRouter(cfg)

	w := do(r, http.MethodGet, "/", "", nil)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), models.ErrCodeNotFound) {
		t.Errorf("GET / without a frontend = %d %q, want JSON 404", w.Code, w.Body.String())
	}
}
