package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDocumentStore persists documents in one MongoDB database, one
// collection per document kind.
type MongoDocumentStore struct {
	db      *mongo.Database
	timeout time.Duration
}

// NewMongoDocumentStore wraps client. A nil client yields a store that
// answers every call with ErrStoreUnavailable.
func NewMongoDocumentStore(client *mongo.Client, database string, timeout time.Duration) *MongoDocumentStore {
	store := &MongoDocumentStore{timeout: timeout}
	if client != nil {
		store.db = client.Database(database)
	}
	return store
}

func (s *MongoDocumentStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if s == nil || s.db == nil {
		return "", ErrStoreUnavailable
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id := primitive.NewObjectID()
	record := make(bson.M, len(doc)+2)
	for k, v := range doc {
		record[k] = v
	}
	record[FieldID] = id
	record[FieldCreatedAt] = time.Now().UTC()

	if _, err := s.db.Collection(collection).InsertOne(ctx, record); err != nil {
		return "", &StoreWriteError{Collection: collection, Err: errors.Wrap(err, "insert")}
	}

	return id.Hex(), nil
}

func (s *MongoDocumentStore) Find(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreUnavailable
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: FieldID, Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, mongoFilter(filter), findOptions)
	if err != nil {
		return nil, errors.Wrapf(ErrStoreUnavailable, "find in %s: %v", collection, err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err = cursor.All(ctx, &raw); err != nil {
		return nil, errors.Wrapf(ErrStoreUnavailable, "decode %s: %v", collection, err)
	}

	docs := make([]Document, 0, len(raw))
	for _, r := range raw {
		docs = append(docs, normalizeMap(r))
	}

	return docs, nil
}

func (s *MongoDocumentStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// mongoFilter turns AnyOf conditions into $in; plain values stay equality
// matches, which MongoDB also applies element-wise to arrays.
func mongoFilter(filter Filter) bson.M {
	out := bson.M{}
	for field, cond := range filter {
		if set, ok := cond.(AnyOf); ok {
			out[field] = bson.M{"$in": []any(set)}
			continue
		}
		out[field] = cond
	}
	return out
}

// normalizeMap converts driver types to plain Go values so callers never
// see bson primitives.
func normalizeMap(m map[string]any) Document {
	out := make(Document, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.ObjectID:
		return val.Hex()
	case primitive.M:
		return normalizeMap(val)
	case map[string]any:
		return normalizeMap(val)
	case primitive.D:
		return normalizeMap(val.Map())
	case primitive.A:
		return normalizeSlice(val)
	case []any:
		return normalizeSlice(val)
	default:
		return v
	}
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = normalizeValue(v)
	}
	return out
}
