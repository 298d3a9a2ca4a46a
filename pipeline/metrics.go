package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the pipeline.
type Metrics struct {
	Registry       *prometheus.Registry
	RunsTotal      *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
	ProductsTotal  prometheus.Counter
	TitlesTotal    *prometheus.CounterVec
	ErrorsTotal    *prometheus.CounterVec
	ActiveSearches prometheus.Gauge
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listingkit_runs_total",
			Help: "Pipeline invocations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listingkit_run_duration_seconds",
			Help:    "Pipeline operation latency.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"operation"},
	)
	products := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listingkit_products_extracted_total",
			Help: "Product records extracted from result pages.",
		},
	)
	titles := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listingkit_titles_generated_total",
			Help: "Titles returned by the generation endpoint by mode.",
		},
		[]string{"mode"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listingkit_errors_total",
			Help: "Pipeline errors by operation and kind.",
		},
		[]string{"operation", "kind"},
	)
	active := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "listingkit_active_searches",
			Help: "Searches currently holding a browser session.",
		},
	)

	registry.MustRegister(runs, duration, products, titles, errorsTotal, active)

	return &Metrics{
		Registry:       registry,
		RunsTotal:      runs,
		RunDuration:    duration,
		ProductsTotal:  products,
		TitlesTotal:    titles,
		ErrorsTotal:    errorsTotal,
		ActiveSearches: active,
	}
}

// observe records the outcome of one operation.
func (m *Metrics) observe(operation string, d time.Duration, kind string) {
	if m == nil {
		return
	}
	outcome := "success"
	if kind != "" {
		outcome = "error"
		m.ErrorsTotal.WithLabelValues(operation, kind).Inc()
	}
	m.RunsTotal.WithLabelValues(operation, outcome).Inc()
	m.RunDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// addProducts increments the extracted-products counter.
func (m *Metrics) addProducts(n int) {
	if m == nil {
		return
	}
	m.ProductsTotal.Add(float64(n))
}

// addTitles increments the generated-titles counter for a mode.
func (m *Metrics) addTitles(mode string, n int) {
	if m == nil {
		return
	}
	m.TitlesTotal.WithLabelValues(mode).Add(float64(n))
}

// searchStarted and searchDone track in-flight searches.
func (m *Metrics) searchStarted() {
	if m == nil {
		return
	}
	m.ActiveSearches.Inc()
}

func (m *Metrics) searchDone() {
	if m == nil {
		return
	}
	m.ActiveSearches.Dec()
}
