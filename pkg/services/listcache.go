package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kinfash-api/api/pkg/util"

	"github.com/redis/go-redis/v9"
)

// ChannelDocuments carries a message for every inserted document.
const ChannelDocuments = "KINFASH_DOCUMENTS"

type DocumentMessageType string

const DocumentCreated DocumentMessageType = "document.created"

type DocumentMessage struct {
	Type       DocumentMessageType `json:"type"`
	Collection string              `json:"collection"`
	Payload    string              `json:"payload"`
	Timestamp  int64               `json:"timestamp"`
}

// RedisListCache caches list bodies under a per-collection generation.
// An insert bumps the generation, which orphans every older entry.
type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListCache(client *redis.Client, ttl time.Duration) *RedisListCache {
	return &RedisListCache{client: client, ttl: ttl}
}

func generationKey(collection string) string {
	return "kinfash:list:" + collection + ":gen"
}

func (rc *RedisListCache) Lookup(ctx context.Context, collection, key string) ([]byte, string, bool) {
	gen, err := rc.client.Get(ctx, generationKey(collection)).Int64()
	if err != nil && err != redis.Nil {
		util.LogError("Failed to read list cache generation", err)
		return nil, "", false
	}

	token := fmt.Sprintf("kinfash:list:%s:%d:%s", collection, gen, key)
	body, err := rc.client.Get(ctx, token).Bytes()
	if err == redis.Nil {
		return nil, token, false
	}
	if err != nil {
		util.LogError("Failed to read list cache", err)
		return nil, "", false
	}

	return body, token, true
}

func (rc *RedisListCache) Store(ctx context.Context, token string, body []byte) {
	if err := rc.client.Set(ctx, token, body, rc.ttl).Err(); err != nil {
		util.LogError("Failed to write list cache", err)
	}
}

// Invalidate bumps the collection generation and publishes the insert on
// ChannelDocuments.
func (rc *RedisListCache) Invalidate(ctx context.Context, collection, id string) {
	message, err := json.Marshal(DocumentMessage{
		Type:       DocumentCreated,
		Collection: collection,
		Payload:    id,
		Timestamp:  time.Now().Unix(),
	})
	if err != nil {
		util.LogError("Failed to marshal document message", err)
		return
	}

	pipe := rc.client.TxPipeline()
	pipe.Incr(ctx, generationKey(collection))
	pipe.Publish(ctx, ChannelDocuments, message)
	if _, err := pipe.Exec(ctx); err != nil {
		util.LogError("Failed to invalidate list cache", err)
	}
}
