package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDocumentMetrics(reg)

	m.IncCreated("product")
	m.IncCreated("product")
	m.IncReadInconsistency("drop")
	m.IncStoreError("order", "insert")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := counterValue(mfs, "kinfash_documents_created_total", map[string]string{"collection": "product"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = counterValue(mfs, "kinfash_read_inconsistencies_total", map[string]string{"collection": "drop"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = counterValue(mfs, "kinfash_store_errors_total", map[string]string{"collection": "order", "op": "insert"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestDocumentMetricsNilSafe(t *testing.T) {
	var m *DocumentMetrics
	assert.NotPanics(t, func() {
		m.IncCreated("product")
		m.IncReadInconsistency("product")
		m.IncStoreError("product", "find")
	})

	assert.NotPanics(t, func() {
		NewDocumentMetrics(nil).IncCreated("product")
	})
}

func counterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if hasLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %q with labels %v not found", name, labels)
}

func hasLabels(pairs []*dto.LabelPair, labels map[string]string) bool {
	matched := 0
	for _, p := range pairs {
		if want, ok := labels[p.GetName()]; ok && want == p.GetValue() {
			matched++
		}
	}
	return matched == len(labels)
}
