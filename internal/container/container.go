package container

import (
	"context"

	"kinfash-api/api/pkg/controllers"
	"kinfash-api/api/pkg/metrics"
	"kinfash-api/api/pkg/services"
	"kinfash-api/api/pkg/util"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type ServiceContainer struct {
	Config   *util.Config
	Mongo    *mongo.Client
	Redis    *redis.Client
	Registry *prometheus.Registry

	DocumentStore  services.DocumentStore
	CatalogService services.CatalogService

	CatalogController *controllers.CatalogController
}

// NewServiceContainer connects the backing services named by cfg and wires
// the catalog. Unreachable backends degrade instead of failing startup.
func NewServiceContainer(ctx context.Context, cfg *util.Config) *ServiceContainer {
	sc := &ServiceContainer{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
	}
	sc.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	switch cfg.StoreDriver {
	case util.StoreDriverMemory:
		util.LogWarning("using in-memory document store, data is lost on restart")
		sc.DocumentStore = services.NewMemoryDocumentStore()
	default:
		sc.Mongo = util.ConnectDB(ctx, cfg)
		sc.DocumentStore = services.NewMongoDocumentStore(sc.Mongo, cfg.DatabaseName, cfg.StoreTimeout)
	}

	var cache services.ListCache
	sc.Redis = util.ConnectRedis(ctx, cfg)
	if sc.Redis != nil && cfg.ListCacheTTL > 0 {
		cache = services.NewRedisListCache(sc.Redis, cfg.ListCacheTTL)
	}

	documentMetrics := metrics.NewDocumentMetrics(sc.Registry)
	sc.CatalogService = services.NewCatalogService(sc.DocumentStore, cache, documentMetrics)
	sc.CatalogController = controllers.InitCatalogController(sc.CatalogService, controllers.ListLimits{
		Products: cfg.ProductListLimit,
		Drops:    cfg.DropListLimit,
		Max:      cfg.MaxListLimit,
	})

	return sc
}

// GetCatalogController returns the catalog controller instance
func (sc *ServiceContainer) GetCatalogController() *controllers.CatalogController {
	return sc.CatalogController
}

// Close releases the backing connections.
func (sc *ServiceContainer) Close(ctx context.Context) {
	if sc.Mongo != nil {
		util.LogError("Failed to disconnect MongoDB", sc.Mongo.Disconnect(ctx))
	}
	if sc.Redis != nil {
		util.LogError("Failed to close redis", sc.Redis.Close())
	}
}
