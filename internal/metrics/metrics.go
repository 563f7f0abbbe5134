// Package metrics exposes Prometheus metrics for the crafts service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crafts"

// Manager owns the service collectors and the registry they live on.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	storeQueryDuration  *prometheus.HistogramVec
	storeErrors         *prometheus.CounterVec
	uploads             *prometheus.CounterVec
	uploadBytes         prometheus.Histogram
}

var global = NewManager(prometheus.NewRegistry()) //nolint:gochecknoglobals // process-wide metrics

// NewManager registers all service collectors on registry.
func NewManager(registry *prometheus.Registry) *Manager {
	auto := promauto.With(registry)
	m := &Manager{registry: registry}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	m.storeQueryDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "query_duration_seconds",
		Help:      "Storage query latency by driver and operation.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"driver", "operation"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "errors_total",
		Help:      "Storage operations that returned an error.",
	}, []string{"driver", "operation"})

	m.uploads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upload",
		Name:      "files_total",
		Help:      "Uploaded image files by naming strategy and outcome.",
	}, []string{"naming", "outcome"})

	m.uploadBytes = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upload",
		Name:      "file_size_bytes",
		Help:      "Size of stored image files.",
		Buckets:   prometheus.ExponentialBuckets(4<<10, 4, 8),
	})

	return m
}

// Handler serves the Prometheus exposition for the manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the process-wide registry.
func Registry() *prometheus.Registry { return global.registry }

// Handler serves the process-wide metrics.
func Handler() http.Handler { return global.Handler() }

// RecordHTTPRequest counts a finished request and observes its latency.
func RecordHTTPRequest(route, method, status string, seconds float64) {
	global.httpRequests.WithLabelValues(route, method, status).Inc()
	global.httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// ObserveStoreQuery records the latency of a storage operation and counts it
// as an error when failed is set.
func ObserveStoreQuery(driver, operation string, seconds float64, failed bool) {
	global.storeQueryDuration.WithLabelValues(driver, operation).Observe(seconds)
	if failed {
		global.storeErrors.WithLabelValues(driver, operation).Inc()
	}
}

// RecordUpload counts an upload attempt. size is ignored unless outcome is "stored".
func RecordUpload(naming, outcome string, size int) {
	global.uploads.WithLabelValues(naming, outcome).Inc()
	if outcome == "stored" {
		global.uploadBytes.Observe(float64(size))
	}
}
