package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"kinfash-api/api/pkg/metrics"
	"kinfash-api/api/pkg/models"
	"kinfash-api/api/pkg/util"

	"github.com/pkg/errors"
)

// CatalogServiceImpl implements the CatalogService interface
type CatalogServiceImpl struct {
	store   DocumentStore
	cache   ListCache
	metrics *metrics.DocumentMetrics
}

// NewCatalogService wires the store. cache may be nil.
func NewCatalogService(store DocumentStore, cache ListCache, m *metrics.DocumentMetrics) CatalogService {
	return &CatalogServiceImpl{
		store:   store,
		cache:   cache,
		metrics: m,
	}
}

// Create validates raw as kind and inserts it. Nothing is written when
// validation fails.
func (cs *CatalogServiceImpl) Create(ctx context.Context, kind models.Kind, raw map[string]any) (string, error) {
	doc, err := models.Validate(kind, raw)
	if err != nil {
		return "", err
	}

	collection := kind.Collection()
	id, err := cs.store.Insert(ctx, collection, doc.Fields())
	if err != nil {
		cs.metrics.IncStoreError(collection, "insert")
		return "", err
	}
	cs.metrics.IncCreated(collection)

	if cs.cache != nil {
		cs.cache.Invalidate(ctx, collection, id)
	}

	return id, nil
}

// List finds up to limit documents of kind and re-validates each one.
// Records that no longer satisfy the schema are reported and left out.
func (cs *CatalogServiceImpl) List(ctx context.Context, kind models.Kind, filter Filter, limit int) ([]models.Document, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}
	collection := kind.Collection()

	var token string
	if cs.cache != nil {
		body, t, hit := cs.cache.Lookup(ctx, collection, listCacheKey(filter, limit))
		if hit {
			if docs, ok := decodeCachedList(kind, body); ok {
				return docs, nil
			}
		}
		token = t
	}

	records, err := cs.store.Find(ctx, collection, filter, limit)
	if err != nil {
		cs.metrics.IncStoreError(collection, "find")
		return nil, err
	}

	docs := make([]models.Document, 0, len(records))
	for _, record := range records {
		doc, err := cs.revalidate(kind, record)
		if err != nil {
			cs.reportInconsistency(err)
			continue
		}
		docs = append(docs, doc)
	}

	if cs.cache != nil && token != "" {
		if body, err := encodeList(docs); err == nil {
			cs.cache.Store(ctx, token, body)
		} else {
			util.LogError("Failed to encode list for cache", err)
		}
	}

	return docs, nil
}

func (cs *CatalogServiceImpl) revalidate(kind models.Kind, record Document) (models.Document, error) {
	id := fmt.Sprint(record[FieldID])

	fields := make(map[string]any, len(record))
	for k, v := range record {
		if k == FieldID || k == FieldCreatedAt {
			continue
		}
		fields[k] = v
	}

	doc, err := models.Validate(kind, fields)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return nil, &ReadInconsistency{Collection: kind.Collection(), DocumentID: id, Err: verr}
		}
		return nil, err
	}
	return doc, nil
}

func (cs *CatalogServiceImpl) reportInconsistency(err error) {
	var inconsistency *ReadInconsistency
	if !errors.As(err, &inconsistency) {
		util.LogError("Failed to re-validate stored document", err)
		return
	}

	cs.metrics.IncReadInconsistency(inconsistency.Collection)
	util.Logger.Warn().
		Str("collection", inconsistency.Collection).
		Str("document_id", inconsistency.DocumentID).
		Interface("fields", inconsistency.Err.Fields).
		Msg("dropping stored document that fails validation")
}

// listCacheKey is stable for equal filters regardless of map order.
func listCacheKey(filter Filter, limit int) string {
	values := url.Values{}
	for field, cond := range filter {
		if set, ok := cond.(AnyOf); ok {
			parts := make([]string, 0, len(set))
			for _, v := range set {
				parts = append(parts, fmt.Sprint(v))
			}
			sort.Strings(parts)
			values.Set(field, "in:"+strings.Join(parts, ","))
			continue
		}
		values.Set(field, "eq:"+fmt.Sprint(cond))
	}
	values.Set("limit", fmt.Sprint(limit))
	return values.Encode()
}

func encodeList(docs []models.Document) ([]byte, error) {
	fields := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		fields = append(fields, d.Fields())
	}
	return json.Marshal(fields)
}

func decodeCachedList(kind models.Kind, body []byte) ([]models.Document, bool) {
	var raw []map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, false
	}

	docs := make([]models.Document, 0, len(raw))
	for _, r := range raw {
		doc, err := models.Validate(kind, r)
		if err != nil {
			return nil, false
		}
		docs = append(docs, doc)
	}
	return docs, true
}
