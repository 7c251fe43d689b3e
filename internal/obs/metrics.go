package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "towerload"

// Metrics holds the counters and histograms of one run. They live on a
// private registry that is written out as a node-exporter textfile.
type Metrics struct {
	Registry *prometheus.Registry

	SitesEvaluated   *prometheus.CounterVec // labels: origin={custom,reference}
	RegressorsLoaded *prometheus.CounterVec // labels: kind={ul,fl}
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	Advisories       prometheus.Counter
	StageDuration    *prometheus.HistogramVec // labels: stage
}

// NewMetrics creates the run metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SitesEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sites_evaluated_total",
			Help:      "Turbine sites whose loads were evaluated.",
		}, []string{"origin"}),
		RegressorsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regressors_loaded_total",
			Help:      "Regressor files loaded by kind.",
		}, []string{"kind"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_cache_hits_total",
			Help:      "Reference loads served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_cache_misses_total",
			Help:      "Reference loads computed because the cache had no entry.",
		}),
		Advisories: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisories_total",
			Help:      "Non-fatal advisories raised during the run.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),
	}
	m.Registry.MustRegister(
		m.SitesEvaluated,
		m.RegressorsLoaded,
		m.CacheHits,
		m.CacheMisses,
		m.Advisories,
		m.StageDuration,
	)
	return m
}

// WriteTextfile writes the registry to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
