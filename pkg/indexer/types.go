package indexer

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IndexDefinition struct {
	Collection string
	Index      mongo.IndexModel
}

// Name is the explicit index name, empty when the server picks one.
func (d IndexDefinition) Name() string {
	if d.Index.Options == nil || d.Index.Options.Name == nil {
		return ""
	}
	return *d.Index.Options.Name
}

type Manager struct {
	db      *mongo.Database
	indexes []IndexDefinition
	options *Options
}

type Options struct {
	Timeout         time.Duration
	ContinueOnError bool
	SkipIfExists    bool
}

type Result struct {
	SuccessCount int             `json:"success_count"`
	FailedCount  int             `json:"failed_count"`
	Failures     []FailureDetail `json:"failures"`
	Duration     time.Duration   `json:"duration"`
}

type FailureDetail struct {
	Collection string `json:"collection"`
	IndexName  string `json:"index_name"`
	Error      error  `json:"-"`
}

type Migration struct {
	Version     string
	Description string
	Up          func(context.Context, *mongo.Database) error
	Down        func(context.Context, *mongo.Database) error
}

type MigrationStatus struct {
	Version   string    `bson:"version" json:"version"`
	AppliedAt time.Time `bson:"applied_at" json:"applied_at"`
	Success   bool      `bson:"success" json:"success"`
}

func DefaultOptions() *Options {
	return &Options{
		Timeout:         60 * time.Second,
		ContinueOnError: true,
		SkipIfExists:    true,
	}
}

func NewManager(db *mongo.Database, opts ...*Options) *Manager {
	o := DefaultOptions()
	if len(opts) > 0 && opts[0] != nil {
		o = opts[0]
	}

	return &Manager{
		db:      db,
		indexes: []IndexDefinition{},
		options: o,
	}
}

// AddIndex registers an ascending index over fields named
// <collection>_<field>[_<field>...].
func (m *Manager) AddIndex(collection string, fields ...string) *Manager {
	keys := bson.D{}
	name := collection
	for _, field := range fields {
		keys = append(keys, bson.E{Key: field, Value: 1})
		name += "_" + field
	}

	m.indexes = append(m.indexes, IndexDefinition{
		Collection: collection,
		Index: mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetName(name),
		},
	})
	return m
}

func (m *Manager) LoadFromDefinitions(definitions []IndexDefinition) *Manager {
	m.indexes = append(m.indexes, definitions...)
	return m
}

// Definitions returns the registered indexes.
func (m *Manager) Definitions() []IndexDefinition {
	return append([]IndexDefinition(nil), m.indexes...)
}
