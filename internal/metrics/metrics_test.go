package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecords(t *testing.T) {
	m := NewMetrics("test").(*metrics)

	m.ObserveQuery("openai", "hi")
	m.ObserveQuery("openai", "hi")
	m.ObserveQuery("transformers:google/flan-t5-base", "en")
	m.ObserveGeneration("openai", 0.42)
	m.IncrementGenerationErrors("openai")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.queriesTotal.WithLabelValues("openai", "hi")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queriesTotal.WithLabelValues("transformers:google/flan-t5-base", "en")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationErrors.WithLabelValues("openai")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.generationTime))
}

func TestMetricsRegistryGathers(t *testing.T) {
	m := NewMetrics("1.2.3")
	m.ObserveQuery("openai", "te")

	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["teacherbot_queries_total"])
	assert.True(t, names["teacherbot_system_info"])
	assert.True(t, names["teacherbot_system_start_timestamp_seconds"])
}

func TestNoopMetrics(t *testing.T) {
	m := NewNoopMetrics()
	m.ObserveQuery("openai", "en")
	m.ObserveGeneration("openai", 1)
	m.IncrementGenerationErrors("openai")

	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}
