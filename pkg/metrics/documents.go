package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DocumentMetrics counts document writes and data-quality signals per
// collection.
type DocumentMetrics struct {
	created           *prometheus.CounterVec
	readInconsistency *prometheus.CounterVec
	storeErrors       *prometheus.CounterVec
}

// NewDocumentMetrics registers the document counters on reg. A nil
// registerer yields a no-op recorder.
func NewDocumentMetrics(reg prometheus.Registerer) *DocumentMetrics {
	if reg == nil {
		return &DocumentMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kinfash_documents_created_total",
		Help: "Documents inserted, by collection.",
	}, []string{"collection"})
	readInconsistency := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kinfash_read_inconsistencies_total",
		Help: "Stored documents dropped from list responses because they fail validation.",
	}, []string{"collection"})
	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kinfash_store_errors_total",
		Help: "Document store failures, by collection and operation.",
	}, []string{"collection", "op"})
	reg.MustRegister(created, readInconsistency, storeErrors)
	return &DocumentMetrics{
		created:           created,
		readInconsistency: readInconsistency,
		storeErrors:       storeErrors,
	}
}

func (m *DocumentMetrics) IncCreated(collection string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(collection)).Inc()
}

func (m *DocumentMetrics) IncReadInconsistency(collection string) {
	if m == nil || m.readInconsistency == nil {
		return
	}
	m.readInconsistency.WithLabelValues(normalizeLabel(collection)).Inc()
}

func (m *DocumentMetrics) IncStoreError(collection, op string) {
	if m == nil || m.storeErrors == nil {
		return
	}
	m.storeErrors.WithLabelValues(normalizeLabel(collection), normalizeLabel(op)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
