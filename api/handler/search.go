package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/listingkit/models"
)

// ProductSearcher runs a listing search. *pipeline.Pipeline implements it.
type ProductSearcher interface {
	Search(ctx context.Context, keyword string) ([]models.ProductRecord, error)
}

// Search returns a handler for POST /api/search.
//
// The browser flow runs under the request context, so a client disconnect
// cancels navigation and releases the session.
func Search(s ProductSearcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.SearchResponse{
				Success:  false,
				Products: []models.ProductRecord{},
				Error:    badRequest(err),
			})
			return
		}

		products, err := s.Search(c.Request.Context(), req.Keyword)
		timing := &models.TimingInfo{TotalMs: time.Since(start).Milliseconds()}
		if err != nil {
			status, detail := failure(c, err, "Failed to extract products")
			c.JSON(status, models.SearchResponse{
				Success:  false,
				Products: []models.ProductRecord{},
				Error:    detail,
				Timing:   timing,
			})
			return
		}
		if products == nil {
			products = []models.ProductRecord{}
		}

		c.JSON(http.StatusOK, models.SearchResponse{
			Success:  true,
			Products: products,
			Count:    len(products),
			Timing:   timing,
		})
	}
}
