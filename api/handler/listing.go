package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/listingkit/llm"
	"github.com/use-agent/listingkit/models"
	"github.com/use-agent/listingkit/pipeline"
)

// ListingRunner runs a search and, optionally, title generation in one
// call. *pipeline.Pipeline implements it.
type ListingRunner interface {
	Run(ctx context.Context, job pipeline.Job) (*pipeline.Outcome, error)
}

// Listing returns a handler for POST /api/listing.
//
// The search always runs first; titles are generated only when requested and
// only after the search succeeded. The first failure ends the request.
func Listing(runner ListingRunner, defaultLanguage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.ListingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ListingResponse{
				Success:  false,
				Products: []models.ProductRecord{},
				Error:    badRequest(err),
			})
			return
		}

		mode, err := llm.ParseMode(req.Mode)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ListingResponse{
				Success:  false,
				Products: []models.ProductRecord{},
				Error:    badRequest(err),
			})
			return
		}

		lang := req.Language
		if lang == "" {
			lang = defaultLanguage
		}

		out, err := runner.Run(c.Request.Context(), pipeline.Job{
			Input: llm.Input{
				Keyword:       req.Keyword,
				Brand:         req.Brand,
				Category:      req.Category,
				SellingPoints: req.SellingPoints,
				Language:      lang,
			},
			Mode:     mode,
			Scrape:   true,
			Generate: req.GenerateTitles,
		})
		timing := &models.TimingInfo{TotalMs: time.Since(start).Milliseconds()}
		if err != nil {
			status, detail := failure(c, err, "Failed to build listing")
			c.JSON(status, models.ListingResponse{
				Success:  false,
				Products: []models.ProductRecord{},
				Error:    detail,
				Timing:   timing,
			})
			return
		}

		products := out.Products
		if products == nil {
			products = []models.ProductRecord{}
		}
		c.JSON(http.StatusOK, models.ListingResponse{
			Success:  true,
			Products: products,
			Count:    len(products),
			Titles:   out.Titles,
			Timing:   timing,
		})
	}
}
