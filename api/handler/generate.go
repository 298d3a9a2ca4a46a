package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/listingkit/llm"
	"github.com/use-agent/listingkit/models"
)

// TitleGenerator produces titles for a keyword. *pipeline.Pipeline
// implements it.
type TitleGenerator interface {
	Generate(ctx context.Context, mode llm.Mode, in llm.Input) ([]string, error)
}

// GenerateTitles returns a handler for POST /api/generate-title.
//
// A missing keyword is a 400; every other failure is a 500 with a generic
// message and the error kind as code.
func GenerateTitles(gen TitleGenerator, defaultLanguage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.GenerateResponse{
				Success: false,
				Error:   badRequest(err),
			})
			return
		}
		req.Defaults()

		mode, err := llm.ParseMode(req.Mode)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.GenerateResponse{Success: false, Error: badRequest(err)})
			return
		}

		lang := req.Language
		if lang == "" {
			lang = defaultLanguage
		}

		titles, err := gen.Generate(c.Request.Context(), mode, llm.Input{
			Keyword:       req.ProductKeywords,
			Brand:         req.Brand,
			Category:      req.Category,
			SellingPoints: req.SellingPoints,
			Language:      lang,
		})
		timing := &models.TimingInfo{TotalMs: time.Since(start).Milliseconds()}
		if err != nil {
			status, detail := failure(c, err, "Failed to generate titles")
			c.JSON(status, models.GenerateResponse{Success: false, Error: detail, Timing: timing})
			return
		}

		c.JSON(http.StatusOK, models.GenerateResponse{
			Success: true,
			Titles:  titles,
			Timing:  timing,
		})
	}
}
