package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/listingkit/models"
)

// failure converts err into the API error detail and status.
//
// Input validation failures keep their message and map to 400. Everything
// else maps to 500 with the caller's generic message; the classified kind is
// kept in the code field and the full error only goes to the log.
func failure(c *gin.Context, err error, genericMsg string) (int, *models.ErrorDetail) {
	kind := models.KindOf(err)
	var me *models.Error
	if kind == models.ErrCodeInvalidInput && errors.As(err, &me) {
		return http.StatusBadRequest, me.ToDetail()
	}

	slog.Error("request failed",
		"path", c.FullPath(),
		"request_id", c.GetString("request_id"),
		"kind", kind,
		"error", err,
	)
	return http.StatusInternalServerError, &models.ErrorDetail{Code: kind, Message: genericMsg}
}

// badRequest is the detail for a payload that failed binding.
func badRequest(err error) *models.ErrorDetail {
	return &models.ErrorDetail{Code: models.ErrCodeInvalidInput, Message: err.Error()}
}
