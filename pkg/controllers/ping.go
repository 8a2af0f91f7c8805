package controllers

import (
	"net/http"
	"time"

	"kinfash-api/api/internal/common"

	"github.com/gin-gonic/gin"
)

// Ping is the liveness probe. It never touches the store.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong", "local_time": time.Now().Local()})
}

// Root identifies the service.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"brand": common.BRAND_NAME, "status": "ok"})
}
