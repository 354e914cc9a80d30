// Package metrics exposes Prometheus instrumentation for teacherbot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	MetricsNamespace          = "teacherbot"
	MetricsSubsystemSystem    = "system"
	MetricsSubsystemQueries   = "queries"
	MetricsSubsystemGenerator = "generator"

	MetricsVersionLabel = "version"
)

// Metrics records what the bot and its front ends do.
type Metrics interface {
	GetRegistry() *prometheus.Registry

	ObserveQuery(backend, lang string)
	ObserveGeneration(backend string, elapsed float64)
	IncrementGenerationErrors(backend string)
}

type metrics struct {
	registry *prometheus.Registry

	startTime prometheus.Gauge
	info      prometheus.Gauge

	queriesTotal     *prometheus.CounterVec
	generationTime   *prometheus.HistogramVec
	generationErrors *prometheus.CounterVec
}

// NewMetrics creates a Prometheus-backed collector on its own registry.
func NewMetrics(version string) Metrics {
	m := &metrics{}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
		Namespace: MetricsNamespace,
	}))
	m.registry.MustRegister(collectors.NewGoCollector())

	m.startTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSystem,
		Name:      "start_timestamp_seconds",
		Help:      "The time the process started.",
	})
	m.startTime.SetToCurrentTime()
	m.registry.MustRegister(m.startTime)

	m.info = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   MetricsNamespace,
		Subsystem:   MetricsSubsystemSystem,
		Name:        "info",
		Help:        "The teacherbot version.",
		ConstLabels: map[string]string{MetricsVersionLabel: version},
	})
	m.info.Set(1)
	m.registry.MustRegister(m.info)

	m.queriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemQueries,
		Name:      "total",
		Help:      "The total number of answered queries.",
	}, []string{"backend", "language"})
	m.registry.MustRegister(m.queriesTotal)

	m.generationTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemGenerator,
		Name:      "duration_seconds",
		Help:      "Time spent in the generation backend.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"backend"})
	m.registry.MustRegister(m.generationTime)

	m.generationErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemGenerator,
		Name:      "errors_total",
		Help:      "The total number of failed generation calls.",
	}, []string{"backend"})
	m.registry.MustRegister(m.generationErrors)

	return m
}

func (m *metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *metrics) ObserveQuery(backend, lang string) {
	m.queriesTotal.With(prometheus.Labels{"backend": backend, "language": lang}).Inc()
}

func (m *metrics) ObserveGeneration(backend string, elapsed float64) {
	m.generationTime.With(prometheus.Labels{"backend": backend}).Observe(elapsed)
}

func (m *metrics) IncrementGenerationErrors(backend string) {
	m.generationErrors.With(prometheus.Labels{"backend": backend}).Inc()
}
