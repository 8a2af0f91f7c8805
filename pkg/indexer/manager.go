package indexer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"kinfash-api/api/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
)

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, m.options.Timeout)
}

// Create builds every registered index. With ContinueOnError set, failures
// are collected and reported together.
func (m *Manager) Create(ctx context.Context) (*Result, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	result := &Result{
		Failures: []FailureDetail{},
	}

	for _, def := range m.indexes {
		if m.options.SkipIfExists {
			exists, err := m.indexExists(ctx, def.Collection, def.Name())
			if err == nil && exists {
				util.Logger.Info().Str("collection", def.Collection).Str("index", def.Name()).Msg("index already exists, skipping")
				result.SuccessCount++
				continue
			}
		}

		indexName, err := m.db.Collection(def.Collection).Indexes().CreateOne(ctx, def.Index)
		if err != nil {
			util.Logger.Error().Err(err).Str("collection", def.Collection).Str("index", def.Name()).Msg("failed to create index")

			result.FailedCount++
			result.Failures = append(result.Failures, FailureDetail{
				Collection: def.Collection,
				IndexName:  def.Name(),
				Error:      err,
			})

			if !m.options.ContinueOnError {
				result.Duration = time.Since(start)
				return result, err
			}
			continue
		}

		util.Logger.Info().Str("collection", def.Collection).Str("index", indexName).Msg("created index")
		result.SuccessCount++
	}

	result.Duration = time.Since(start)

	if result.FailedCount > 0 {
		return result, fmt.Errorf("%d indexes failed to create", result.FailedCount)
	}
	return result, nil
}

// Drop removes all secondary indexes from collections, or from every
// collection with a registered index when none are named.
func (m *Manager) Drop(ctx context.Context, collections ...string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	targets := collections
	if len(targets) == 0 {
		targets = m.Collections()
	}

	for _, name := range targets {
		if _, err := m.db.Collection(name).Indexes().DropAll(ctx); err != nil {
			if !m.options.ContinueOnError {
				return fmt.Errorf("failed to drop indexes for %s: %w", name, err)
			}
			util.Logger.Error().Err(err).Str("collection", name).Msg("failed to drop indexes")
			continue
		}
		util.Logger.Info().Str("collection", name).Msg("dropped all indexes")
	}

	return nil
}

func (m *Manager) List(ctx context.Context, collection string) ([]bson.M, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	cursor, err := m.db.Collection(collection).Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var indexes []bson.M
	if err = cursor.All(ctx, &indexes); err != nil {
		return nil, err
	}
	return indexes, nil
}

// Collections lists the distinct collections with a registered index.
func (m *Manager) Collections() []string {
	seen := make(map[string]bool)
	var out []string
	for _, def := range m.indexes {
		if !seen[def.Collection] {
			seen[def.Collection] = true
			out = append(out, def.Collection)
		}
	}
	sort.Strings(out)
	return out
}

func (m *Manager) indexExists(ctx context.Context, collection, indexName string) (bool, error) {
	if indexName == "" {
		return false, nil
	}

	indexes, err := m.List(ctx, collection)
	if err != nil {
		return false, err
	}

	for _, idx := range indexes {
		if name, ok := idx["name"].(string); ok && name == indexName {
			return true, nil
		}
	}
	return false, nil
}
