package controllers

import (
	"net/http"

	"kinfash-api/api/internal/helpers"
	"kinfash-api/api/pkg/models"
	"kinfash-api/api/pkg/services"
	"kinfash-api/api/pkg/util"

	"github.com/gin-gonic/gin"
)

// ListLimits are the default page sizes and the hard ceiling for list
// endpoints.
type ListLimits struct {
	Products int
	Drops    int
	Max      int
}

type CatalogController struct {
	catalogService services.CatalogService
	limits         ListLimits
}

// InitCatalogController creates a catalog controller with injected services
func InitCatalogController(catalogService services.CatalogService, limits ListLimits) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		limits:         limits,
	}
}

// CreateDocument handles POST for any document kind and answers {id}.
func (cc *CatalogController) CreateDocument(kind models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := cc.create(c, kind)
		if !ok {
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// CreateOrder handles POST /api/orders
func (cc *CatalogController) CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := cc.create(c, models.KindOrder)
		if !ok {
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "status": models.OrderStatusCreated})
	}
}

func (cc *CatalogController) create(c *gin.Context, kind models.Kind) (string, bool) {
	ctx, cancel := WithTimeout(c)
	defer cancel()

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		util.HandleValidationError(c, bodyError(kind))
		return "", false
	}

	id, err := cc.catalogService.Create(ctx, kind, raw)
	if err != nil {
		HandleServiceError(c, err)
		return "", false
	}

	return id, true
}

// ListProducts handles GET /api/products?category=&tag=&limit=
func (cc *CatalogController) ListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ferr := helpers.GetLimitArg(c, cc.limits.Products, cc.limits.Max)
		if ferr != nil {
			util.HandleValidationError(c, &models.ValidationError{Kind: models.KindProduct, Fields: []models.FieldError{*ferr}})
			return
		}

		filter := services.Filter{}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if tag := c.Query("tag"); tag != "" {
			filter["tags"] = services.AnyOf{tag}
		}

		cc.list(c, models.KindProduct, filter, limit)
	}
}

// ListDrops handles GET /api/drops?limit=
func (cc *CatalogController) ListDrops() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ferr := helpers.GetLimitArg(c, cc.limits.Drops, cc.limits.Max)
		if ferr != nil {
			util.HandleValidationError(c, &models.ValidationError{Kind: models.KindDrop, Fields: []models.FieldError{*ferr}})
			return
		}

		cc.list(c, models.KindDrop, services.Filter{}, limit)
	}
}

func (cc *CatalogController) list(c *gin.Context, kind models.Kind, filter services.Filter, limit int) {
	ctx, cancel := WithTimeout(c)
	defer cancel()

	docs, err := cc.catalogService.List(ctx, kind, filter, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}
