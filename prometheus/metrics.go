package prometheus

import (
	"time"

	"lease-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Lease operation metrics
	LeaseOperationsCounter prometheus.CounterVec

	// Schedule rebuild metrics
	ScheduleRebuildCounter prometheus.CounterVec
	ReplayFailuresCounter  prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Lease operation metrics
	LeaseOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of lease operations",
		},
		[]string{"operation"},
	)

	// Schedule rebuild metrics, labelled by outcome
	ScheduleRebuildCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_schedule_rebuilds_total",
			Help: "Total number of schedule reconciliations by outcome",
		},
		[]string{"outcome"},
	)

	ReplayFailuresCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_payment_replay_failures_total",
			Help: "Total number of aborted schedule rebuilds due to payment replay inconsistencies",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordLeaseOperation increments the counter for lease operations
func RecordLeaseOperation(operation string) {
	LeaseOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordScheduleRebuild increments the rebuild counter for an outcome
func RecordScheduleRebuild(outcome string) {
	ScheduleRebuildCounter.WithLabelValues(outcome).Inc()
}

// RecordReplayFailure increments the replay failure counter
func RecordReplayFailure() {
	ReplayFailuresCounter.Inc()
}
