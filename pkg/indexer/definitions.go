package indexer

import (
	"context"

	"kinfash-api/api/pkg/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// KinfashIndexes backs the list filters and the email lookups on shopper
// records.
func KinfashIndexes() []IndexDefinition {
	m := NewManager(nil).
		AddIndex(models.KindProduct.Collection(), "category").
		AddIndex(models.KindProduct.Collection(), "tags").
		AddIndex(models.KindDrop.Collection(), "week_of")

	for _, kind := range []models.Kind{models.KindMeasurement, models.KindQuizResult, models.KindOrder, models.KindUserProfile} {
		m.AddIndex(kind.Collection(), "email")
	}
	return m.Definitions()
}

// KinfashMigrations are the data migrations run by `idxr -action migrate`.
func KinfashMigrations() []Migration {
	return []Migration{
		{
			Version:     "20260901_backfill_list_defaults",
			Description: "set missing or null list fields to []",
			Up: func(ctx context.Context, db *mongo.Database) error {
				for _, kind := range models.Kinds() {
					if err := BackfillListDefaults(ctx, db.Collection(kind.Collection()), models.ListFields(kind)); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
