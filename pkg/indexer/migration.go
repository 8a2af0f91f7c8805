package indexer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"kinfash-api/api/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const migrationCollection = "_kinfash_migrations"

type MigrationManager struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrationManager(db *mongo.Database) *MigrationManager {
	return &MigrationManager{
		db:         db,
		migrations: []Migration{},
	}
}

func (mm *MigrationManager) AddMigration(migrations ...Migration) *MigrationManager {
	mm.migrations = append(mm.migrations, migrations...)
	return mm
}

// Pending returns the registered migrations in version order.
func (mm *MigrationManager) Pending() []Migration {
	out := append([]Migration(nil), mm.migrations...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Version < out[j].Version
	})
	return out
}

// Run applies every migration not yet recorded as successful. A failed run
// is recorded and stops the sequence.
func (mm *MigrationManager) Run(ctx context.Context) error {
	coll := mm.db.Collection(migrationCollection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "version", Value: 1}},
		Options: options.Index().SetName("version_unique").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create migration index: %w", err)
	}

	for _, migration := range mm.Pending() {
		applied, err := mm.isApplied(ctx, migration.Version)
		if err != nil {
			return fmt.Errorf("failed to check migration status for %s: %w", migration.Version, err)
		}
		if applied {
			util.Logger.Info().Str("version", migration.Version).Msg("migration already applied, skipping")
			continue
		}

		util.Logger.Info().Str("version", migration.Version).Msg(migration.Description)

		start := time.Now()
		err = migration.Up(ctx, mm.db)
		status := MigrationStatus{
			Version:   migration.Version,
			AppliedAt: time.Now().UTC(),
			Success:   err == nil,
		}

		// failed attempts are replaced by the next run
		if _, saveErr := coll.ReplaceOne(ctx, bson.M{"version": migration.Version}, status, options.Replace().SetUpsert(true)); saveErr != nil {
			util.LogError("Failed to save migration status", saveErr)
			if err == nil {
				return fmt.Errorf("failed to save migration status: %w", saveErr)
			}
		}

		if err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Version, err)
		}
		util.Logger.Info().Str("version", migration.Version).Dur("took", time.Since(start)).Msg("migration completed")
	}

	return nil
}

func (mm *MigrationManager) Status(ctx context.Context) ([]MigrationStatus, error) {
	coll := mm.db.Collection(migrationCollection)
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "version", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query migration status: %w", err)
	}
	defer cursor.Close(ctx)

	var statuses []MigrationStatus
	if err = cursor.All(ctx, &statuses); err != nil {
		return nil, fmt.Errorf("failed to decode migration statuses: %w", err)
	}
	return statuses, nil
}

func (mm *MigrationManager) isApplied(ctx context.Context, version string) (bool, error) {
	count, err := mm.db.Collection(migrationCollection).CountDocuments(ctx, bson.M{"version": version, "success": true})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// listDefaultUpdate selects documents where field is missing or null and
// sets it to an empty list.
func listDefaultUpdate(field string) (bson.M, bson.M) {
	filter := bson.M{"$or": bson.A{
		bson.M{field: bson.M{"$exists": false}},
		bson.M{field: nil},
	}}
	update := bson.M{"$set": bson.M{field: bson.A{}}}
	return filter, update
}

// BackfillListDefaults writes [] into every missing list field of coll.
func BackfillListDefaults(ctx context.Context, coll *mongo.Collection, fields []string) error {
	for _, field := range fields {
		filter, update := listDefaultUpdate(field)
		res, err := coll.UpdateMany(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("backfill %s.%s: %w", coll.Name(), field, err)
		}
		util.Logger.Info().
			Str("collection", coll.Name()).
			Str("field", field).
			Int64("modified", res.ModifiedCount).
			Msg("backfilled list default")
	}
	return nil
}
