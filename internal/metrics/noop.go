package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// NoopMetrics is a no-operation implementation of the Metrics interface,
// used by the REPL and in tests.
type NoopMetrics struct{}

// NewNoopMetrics creates a new instance of NoopMetrics.
func NewNoopMetrics() Metrics {
	return &NoopMetrics{}
}

// GetRegistry returns a new empty registry.
func (m *NoopMetrics) GetRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func (m *NoopMetrics) ObserveQuery(backend, lang string)                 {}
func (m *NoopMetrics) ObserveGeneration(backend string, elapsed float64) {}
func (m *NoopMetrics) IncrementGenerationErrors(backend string)          {}
