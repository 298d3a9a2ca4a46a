package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/listingkit/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// BrowserStatus reports on the shared browser. *scraper.Scraper implements it.
type BrowserStatus interface {
	Connected() bool
	ActiveSessions() int
}

// Health returns a handler for GET /api/health.
//
// Status is "degraded" when the browser no longer answers or no generation
// credential is configured; the endpoint itself always returns 200.
func Health(browser BrowserStatus, generationReady bool, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := models.HealthResponse{
			Status:          "healthy",
			Uptime:          time.Since(startTime).Round(time.Second).String(),
			Version:         Version,
			GenerationReady: generationReady,
		}
		if browser != nil {
			resp.BrowserConnected = browser.Connected()
			resp.ActiveSessions = browser.ActiveSessions()
		}
		if !resp.BrowserConnected || !generationReady {
			resp.Status = "degraded"
		}

		c.JSON(http.StatusOK, resp)
	}
}
