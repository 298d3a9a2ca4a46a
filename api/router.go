package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/use-agent/listingkit/api/handler"
	"github.com/use-agent/listingkit/api/middleware"
	"github.com/use-agent/listingkit/config"
	"github.com/use-agent/listingkit/models"
	"github.com/use-agent/listingkit/pipeline"
)

// Deps are the collaborators the router serves.
type Deps struct {
	Pipeline        *pipeline.Pipeline
	Browser         handler.BrowserStatus
	GenerationReady bool
	Metrics         *pipeline.Metrics // nil disables /metrics
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Logger → CORS
//	API:     Auth (if enabled) → RateLimit
//
// Health and /metrics sit outside auth so health checks and metric scrapers always work.
func NewRouter(deps Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	apiGroup := r.Group("/api")
	apiGroup.GET("/health", handler.Health(deps.Browser, deps.GenerationReady, startTime))

	protected := apiGroup.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/generate-title", handler.GenerateTitles(deps.Pipeline, cfg.Generation.Language))
	protected.POST("/search", handler.Search(deps.Pipeline))
	protected.POST("/listing", handler.Listing(deps.Pipeline, cfg.Generation.Language))

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	r.NoRoute(frontend(cfg.Server.StaticDir))

	return r
}

// frontend serves files from dir and falls back to dir/index.html for any
// other GET, so client-side routes resolve. API paths, non-GET methods and a
// missing frontend get a JSON 404.
func frontend(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		isRead := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if dir == "" || !isRead || strings.HasPrefix(p, "/api/") {
			notFound(c)
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			notFound(c)
			return
		}
		c.File(index)
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Success: false,
		Error:   &models.ErrorDetail{Code: models.ErrCodeNotFound, Message: "route not found"},
	})
}
