package indexer

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type IndexStats struct {
	Name     string    `json:"name"`
	Accesses int64     `json:"accesses"`
	Since    time.Time `json:"since"`
	Host     string    `json:"host"`
	Building bool      `json:"building"`
}

// Stats runs $indexStats on collection.
func (m *Manager) Stats(ctx context.Context, collection string) ([]IndexStats, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$indexStats", Value: bson.D{}}},
	}
	cursor, err := m.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get index stats: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err = cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}

	stats := make([]IndexStats, 0, len(raw))
	for _, r := range raw {
		stats = append(stats, parseIndexStats(r))
	}
	return stats, nil
}

func parseIndexStats(raw bson.M) IndexStats {
	var stat IndexStats
	stat.Name, _ = raw["name"].(string)
	stat.Host, _ = raw["host"].(string)
	stat.Building, _ = raw["building"].(bool)

	if accesses, ok := raw["accesses"].(bson.M); ok {
		switch ops := accesses["ops"].(type) {
		case int64:
			stat.Accesses = ops
		case int32:
			stat.Accesses = int64(ops)
		}
		if since, ok := accesses["since"].(primitive.DateTime); ok {
			stat.Since = since.Time().UTC()
		}
	}
	return stat
}

// StatsAll collects Stats for every collection with a registered index.
func (m *Manager) StatsAll(ctx context.Context) (map[string][]IndexStats, error) {
	results := make(map[string][]IndexStats)
	for _, name := range m.Collections() {
		stats, err := m.Stats(ctx, name)
		if err != nil {
			if m.options.ContinueOnError {
				results[name] = []IndexStats{}
				continue
			}
			return nil, fmt.Errorf("failed to get stats for %s: %w", name, err)
		}
		results[name] = stats
	}
	return results, nil
}
