package services

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryDocumentStore keeps documents in process memory. It backs local
// runs (STORE_DRIVER=memory) and tests.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
	now         func() time.Time
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		collections: make(map[string][]Document),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryDocumentStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &StoreWriteError{Collection: collection, Err: err}
	}

	id := uuid.NewString()
	record := cloneValue(doc).(Document)
	record[FieldID] = id
	record[FieldCreatedAt] = s.now()

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], record)
	s.mu.Unlock()

	return id, nil
}

func (s *MemoryDocumentStore) Find(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrStoreUnavailable
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Document{}
	for _, doc := range s.collections[collection] {
		if limit > 0 && len(out) >= limit {
			break
		}
		if !matches(doc, filter) {
			continue
		}
		out = append(out, cloneValue(doc).(Document))
	}

	return out, nil
}

// Put stores a record verbatim, bypassing identifier assignment. Used to
// seed records written by older releases.
func (s *MemoryDocumentStore) Put(collection string, doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], cloneValue(doc).(Document))
}

// Len is the number of records in collection.
func (s *MemoryDocumentStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func matches(doc Document, filter Filter) bool {
	for field, cond := range filter {
		value, ok := doc[field]
		if !ok {
			return false
		}
		if set, isSet := cond.(AnyOf); isSet {
			if !matchesAny(value, set) {
				return false
			}
			continue
		}
		if !matchesValue(value, cond) {
			return false
		}
	}
	return true
}

func matchesAny(value any, set AnyOf) bool {
	for _, want := range set {
		if matchesValue(value, want) {
			return true
		}
	}
	return false
}

func matchesValue(value, want any) bool {
	if elems, ok := asList(value); ok {
		for _, e := range elems {
			if reflect.DeepEqual(e, want) {
				return true
			}
		}
		return false
	}
	return reflect.DeepEqual(value, want)
}

func asList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string{}, val...)
	case []map[string]any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
