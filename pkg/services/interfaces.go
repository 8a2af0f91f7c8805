package services

import (
	"context"

	"kinfash-api/api/pkg/models"
)

// Document is a stored record as plain name/value pairs. Store-assigned
// keys (_id, created_at) live alongside the schema fields.
type Document = map[string]any

// Filter maps a field name to the value it must equal, or to an AnyOf set.
// A list-valued field matches when any of its elements matches.
type Filter map[string]any

// AnyOf matches a field holding any of the listed values.
type AnyOf []any

const (
	FieldID        = "_id"
	FieldCreatedAt = "created_at"
)

// DocumentStore is the collection-agnostic persistence contract.
type DocumentStore interface {
	// Insert assigns an identifier and creation time, writes the record and
	// returns the identifier.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	// Find returns at most limit records matching filter, oldest first.
	Find(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error)
}

// CatalogService validates payloads against the schema registry before they
// reach the store, and re-validates what the store hands back.
type CatalogService interface {
	Create(ctx context.Context, kind models.Kind, raw map[string]any) (string, error)
	List(ctx context.Context, kind models.Kind, filter Filter, limit int) ([]models.Document, error)
}

// ListCache keeps encoded list results per collection until the next insert
// into that collection.
type ListCache interface {
	// Lookup returns the cached body for key. The token must be handed back
	// to Store so a result computed before an insert is never stored after it.
	Lookup(ctx context.Context, collection, key string) (body []byte, token string, hit bool)
	Store(ctx context.Context, token string, body []byte)
	Invalidate(ctx context.Context, collection, id string)
}
