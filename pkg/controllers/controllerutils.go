package controllers

import (
	"context"
	"net/http"

	"kinfash-api/api/internal/common"
	"kinfash-api/api/pkg/models"
	"kinfash-api/api/pkg/services"
	"kinfash-api/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// WithTimeout bounds the request context with the standard request timeout
func WithTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), common.REQUEST_TIMEOUT_SECS)
}

// HandleServiceError maps catalog errors to responses. Store failures get a
// generic body; their detail only goes to the log.
func HandleServiceError(c *gin.Context, err error) {
	var verr *models.ValidationError
	var werr *services.StoreWriteError

	switch {
	case errors.As(err, &verr):
		util.HandleValidationError(c, verr)
	case errors.Is(err, services.ErrStoreUnavailable):
		util.HandleInternalError(c, http.StatusServiceUnavailable, err)
	case errors.As(err, &werr):
		util.HandleInternalError(c, http.StatusInternalServerError, err)
	default:
		util.HandleInternalError(c, http.StatusInternalServerError, err)
	}
}

func bodyError(kind models.Kind) *models.ValidationError {
	return &models.ValidationError{
		Kind:   kind,
		Fields: []models.FieldError{{Field: "body", Reason: "must be a JSON object"}},
	}
}
