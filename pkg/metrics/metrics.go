package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the dedicated registry served on /api/metrics
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Custom histogram buckets optimized for API response times ranging from
	// milliseconds to the relay's worst-case round trip
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics (Postgres)
	DBRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Notification Relay Metrics (Formspree)
	RelayRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_client_request_duration_seconds",
			Help:    "Notification relay request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"status"},
	)

	RelayRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_client_request_total",
			Help: "Total number of notification relay requests",
		},
		[]string{"status"},
	)

	// Storage Client Metrics (gallery bucket)
	StorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	BookingSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crystal_booking_submissions_total",
			Help: "Total number of booking form submissions",
		},
		[]string{"status"},
	)

	DiscountClaims = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crystal_discount_claims_total",
			Help: "Total number of discount claim attempts",
		},
		[]string{"status"},
	)

	DiscountIssued = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crystal_discount_issued_percent",
			Help:    "Distribution of issued discount percentages",
			Buckets: []float64{20, 22, 24, 26, 28, 30, 32},
		},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
