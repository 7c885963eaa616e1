// Package metrics provides the platform's optional Prometheus
// instrumentation. It is observability, never a behavior gate: every
// method is nil-safe so a platform run without a registered collector
// behaves identically, just unmeasured.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds the platform's build-orchestration counters/histograms.
// A nil *Registry is valid and every method on it is a no-op.
type Registry struct {
	buildsTotal    *prometheus.CounterVec
	buildDuration  *prometheus.HistogramVec
	nodesInitTotal prometheus.Counter
	cacheDropTotal prometheus.Counter
}

// New registers the platform's metrics against reg and returns a bound
// Registry. Pass nil to disable metrics entirely.
func New(reg prometheus.Registerer) *Registry {
	if reg == nil {
		return nil
	}

	m := &Registry{
		buildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enb",
			Name:      "builds_total",
			Help:      "Total number of build/clean invocations, labeled by outcome.",
		}, []string{"outcome"}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "enb",
			Name:      "build_duration_seconds",
			Help:      "Build/clean wall-clock duration.",
		}, []string{"outcome"}),
		nodesInitTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enb",
			Name:      "nodes_initialized_total",
			Help:      "Total number of nodes initialized across this platform's lifetime.",
		}),
		cacheDropTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enb",
			Name:      "cache_drops_total",
			Help:      "Total number of times the persistent cache was invalidated and dropped.",
		}),
	}

	reg.MustRegister(m.buildsTotal, m.buildDuration, m.nodesInitTotal, m.cacheDropTotal)
	return m
}

func (m *Registry) ObserveBuild(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.buildsTotal.WithLabelValues(outcome).Inc()
	m.buildDuration.WithLabelValues(outcome).Observe(seconds)
}

func (m *Registry) IncNodeInit() {
	if m == nil {
		return
	}
	m.nodesInitTotal.Inc()
}

func (m *Registry) IncCacheDrop() {
	if m == nil {
		return
	}
	m.cacheDropTotal.Inc()
}
