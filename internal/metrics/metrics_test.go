package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New_NilRegistererReturnsNilRegistry(t *testing.T) {
	m := New(nil)
	assert.Nil(t, m)
}

func Test_NilRegistry_MethodsAreNoOps(t *testing.T) {
	var m *Registry
	assert.NotPanics(t, func() {
		m.ObserveBuild("success", 1.5)
		m.IncNodeInit()
		m.IncCacheDrop()
	})
}

func Test_IncNodeInit_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NotNil(t, m)

	m.IncNodeInit()
	m.IncNodeInit()

	metric := &dto.Metric{}
	require.NoError(t, m.nodesInitTotal.Write(metric))
	assert.Equal(t, float64(2), metric.GetCounter().GetValue())
}

func Test_IncCacheDrop_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NotNil(t, m)

	m.IncCacheDrop()

	metric := &dto.Metric{}
	require.NoError(t, m.cacheDropTotal.Write(metric))
	assert.Equal(t, float64(1), metric.GetCounter().GetValue())
}

func Test_ObserveBuild_RecordsOutcomeLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NotNil(t, m)

	m.ObserveBuild("failure", 0.25)

	metric := &dto.Metric{}
	require.NoError(t, m.buildsTotal.WithLabelValues("failure").Write(metric))
	assert.Equal(t, float64(1), metric.GetCounter().GetValue())
}
