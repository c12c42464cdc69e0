package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route pattern, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	OptimizationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_optimization_runs_total", Help: "Optimizer runs by outcome."},
		[]string{"outcome"},
	)
	OptimizationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_optimization_duration_seconds", Help: "Optimizer run duration including store access.", Buckets: prometheus.DefBuckets},
	)
	TripsPlanned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_optimization_trips_total", Help: "Trips produced by successful optimizer runs."},
	)
	EventPublishFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "event_publish_failures_total", Help: "Events that could not be published."},
		[]string{"event_type"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call twice.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OptimizationRuns)
		Registry.MustRegister(OptimizationDuration)
		Registry.MustRegister(TripsPlanned)
		Registry.MustRegister(EventPublishFailures)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
