package driver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/memodom/pkg/vdom"
)

// MetricsConfig configures driver metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "memodom").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for cycle duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures driver metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the Prometheus collectors shared by drivers.
type Metrics struct {
	cycles         *prometheus.CounterVec
	cycleDuration  prometheus.Histogram
	changes        *prometheus.CounterVec
	cacheSkips     prometheus.Counter
	templateClones prometheus.Counter
	templates      prometheus.Counter
	drivers        prometheus.Gauge
}

// NewMetrics registers the driver collectors.
//
// Metrics collected:
//   - memodom_cycles_total: Counter of render cycles by kind and status
//   - memodom_cycle_duration_seconds: Histogram of cycle duration
//   - memodom_changes_total: Counter of emitted changes by op
//   - memodom_cache_skips_total: Counter of cached subtrees reused without diffing
//   - memodom_template_clones_total: Counter of subtrees created from a template
//   - memodom_templates_total: Counter of recorded templates
//   - memodom_drivers: Gauge of open drivers
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "memodom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "cycles_total",
			Help:        "Total number of render cycles",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "status"}),

		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "cycle_duration_seconds",
			Help:        "Render cycle duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "changes_total",
			Help:        "Total number of changes emitted, by op",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		cacheSkips: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "cache_skips_total",
			Help:        "Cached subtrees reused without diffing",
			ConstLabels: config.ConstLabels,
		}),

		templateClones: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "template_clones_total",
			Help:        "Subtrees created by cloning a template",
			ConstLabels: config.ConstLabels,
		}),

		templates: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "templates_total",
			Help:        "Templates recorded",
			ConstLabels: config.ConstLabels,
		}),

		drivers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "drivers",
			Help:        "Number of open drivers",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordCycle(kind string, d time.Duration, cl vdom.ChangeList, st vdom.DiffStats, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.cycles.WithLabelValues(kind, status).Inc()
	m.cycleDuration.Observe(d.Seconds())
	for op, n := range cl.Stats() {
		if n > 0 {
			m.changes.WithLabelValues(vdom.Op(op).String()).Add(float64(n))
		}
	}
	m.cacheSkips.Add(float64(st.Skipped))
	m.templateClones.Add(float64(st.Cloned))
	m.templates.Add(float64(st.Templates))
}

func (m *Metrics) driverOpened() {
	if m != nil {
		m.drivers.Inc()
	}
}

func (m *Metrics) driverClosed() {
	if m != nil {
		m.drivers.Dec()
	}
}
