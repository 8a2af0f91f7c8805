package routers

import (
	"kinfash-api/api/internal/container"
	"kinfash-api/api/internal/middleware"
	"kinfash-api/api/pkg/controllers"
	"kinfash-api/api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitRoute creates the Gin router for the storefront API
func InitRoute(serviceContainer *container.ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CorsMiddleware())

	router.GET("/", controllers.Root)
	router.GET("/ping", controllers.Ping)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(serviceContainer.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api", middleware.KinfashRateLimiter(serviceContainer.Redis, serviceContainer.Config.RateLimitPerSecond))
	{
		catalogRoutes(api, serviceContainer)
		shopperRoutes(api, serviceContainer)
	}

	return router
}

// catalogRoutes configures product and drop endpoints
func catalogRoutes(api *gin.RouterGroup, serviceContainer *container.ServiceContainer) {
	catalog := serviceContainer.GetCatalogController()

	api.GET("/products", catalog.ListProducts())
	api.POST("/products", catalog.CreateDocument(models.KindProduct))

	api.GET("/drops", catalog.ListDrops())
	api.POST("/drops", catalog.CreateDocument(models.KindDrop))
}

// shopperRoutes configures the write-only shopper endpoints
func shopperRoutes(api *gin.RouterGroup, serviceContainer *container.ServiceContainer) {
	catalog := serviceContainer.GetCatalogController()

	api.POST("/measurements", catalog.CreateDocument(models.KindMeasurement))
	api.POST("/quiz", catalog.CreateDocument(models.KindQuizResult))
	api.POST("/orders", catalog.CreateOrder())
	api.POST("/profile", catalog.CreateDocument(models.KindUserProfile))
}
