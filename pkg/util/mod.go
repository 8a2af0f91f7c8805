package util

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	Port    string `envconfig:"PORT" default:"8000"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`

	DatabaseURL  string        `envconfig:"DATABASE_URL"`
	DatabaseName string        `envconfig:"DATABASE_NAME" default:"kinfash"`
	StoreDriver  string        `envconfig:"STORE_DRIVER" default:"mongo"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"10s"`

	RedisURL     string        `envconfig:"REDIS_URL"`
	ListCacheTTL time.Duration `envconfig:"LIST_CACHE_TTL" default:"30s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	ProductListLimit   int `envconfig:"PRODUCT_LIST_LIMIT" default:"24"`
	DropListLimit      int `envconfig:"DROP_LIST_LIMIT" default:"10"`
	MaxListLimit       int `envconfig:"MAX_LIST_LIMIT" default:"100"`
	RateLimitPerSecond uint `envconfig:"RATE_LIMIT_PER_SECOND" default:"20"`
}

// LoadConfig loads .env when present and parses the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		LogInfo("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case StoreDriverMongo, StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.ProductListLimit < 1 || c.DropListLimit < 1 || c.MaxListLimit < 1 {
		return fmt.Errorf("list limits must be positive")
	}
	if c.ProductListLimit > c.MaxListLimit {
		c.ProductListLimit = c.MaxListLimit
	}
	if c.DropListLimit > c.MaxListLimit {
		c.DropListLimit = c.MaxListLimit
	}
	return nil
}

// ConnectDB dials MongoDB. It returns nil, not an error, when no URL is
// configured or the server cannot be reached: requests then fail with a
// store-unavailable error instead of the process exiting.
func ConnectDB(ctx context.Context, cfg *Config) *mongo.Client {
	if cfg.DatabaseURL == "" {
		LogWarning("DATABASE_URL not set, document store unavailable")
		return nil
	}

	Logger.Info().Msg("starting MongoDB connection..")
	ctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.DatabaseURL).
		SetServerSelectionTimeout(cfg.StoreTimeout))
	if err != nil {
		LogError("MongoDB connection failed", err)
		return nil
	}

	// try to ping the database
	if err := client.Ping(ctx, nil); err != nil {
		LogError("MongoDB ping failed", err)
		_ = client.Disconnect(context.Background())
		return nil
	}

	Logger.Info().Str("database", cfg.DatabaseName).Msg("MongoDB connection successful")
	return client
}

// ConnectRedis returns nil when REDIS_URL is unset or unreachable.
func ConnectRedis(ctx context.Context, cfg *Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		LogError("invalid REDIS_URL", err)
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		LogError("redis ping failed", err)
		_ = client.Close()
		return nil
	}

	Logger.Info().Msg("redis connection successful..")
	return client
}
