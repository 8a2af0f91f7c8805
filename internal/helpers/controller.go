package helpers

import (
	"strconv"

	"kinfash-api/api/pkg/models"

	"github.com/gin-gonic/gin"
)

// GetLimitArg reads the limit query parameter. Missing means def; values
// above max are clamped to max.
func GetLimitArg(c *gin.Context, def, max int) (int, *models.FieldError) {
	raw, ok := c.GetQuery("limit")
	if !ok || raw == "" {
		return min(def, max), nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.FieldError{Field: "limit", Reason: "must be an integer"}
	}
	if limit < 1 {
		return 0, &models.FieldError{Field: "limit", Reason: "must be greater than or equal to 1"}
	}

	return min(limit, max), nil
}
