package util

import (
	"net/http"

	"kinfash-api/api/pkg/models"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error  string              `json:"error,omitempty"`
	Fields []models.FieldError `json:"fields,omitempty"`
	Status int                 `json:"status"`
}

// HandleValidationError answers 422 with one entry per failing field.
func HandleValidationError(c *gin.Context, verr *models.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:  "validation failed",
		Fields: verr.Fields,
		Status: http.StatusUnprocessableEntity,
	})
}

// HandleInternalError logs err and answers with a generic message so store
// details never reach the client.
func HandleInternalError(c *gin.Context, statusCode int, err error) {
	Logger.Error().Err(err).Int("status", statusCode).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(statusCode, ErrorResponse{
		Error:  http.StatusText(statusCode),
		Status: statusCode,
	})
}
