package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Appointment creation outcomes.
const (
	OutcomeCreated          = "created"
	OutcomeInvalidInterval  = "invalid_interval"
	OutcomeUnknownReference = "unknown_reference"
	OutcomeConflict         = "conflict"
	OutcomeError            = "error"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	AppointmentsTotal   *prometheus.CounterVec
	OverlapScanSize     prometheus.Histogram
	RecordsDeletedTotal *prometheus.CounterVec

	DBQueryDuration *prometheus.HistogramVec

	AuditEntriesTotal  prometheus.Counter
	AuditBufferDropped prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewCollector registers every metric on reg and serves reg from Handler.
// Each test should use its own prometheus.NewRegistry().
func NewCollector(serviceName string, reg *prometheus.Registry) *Collector {
	// metric namespaces must be valid identifiers
	serviceName = strings.NewReplacer("-", "_", ".", "_").Replace(serviceName)
	f := promauto.With(reg)
	return &Collector{
		gatherer: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		AppointmentsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "scheduling",
			Name:      "appointment_requests_total",
			Help:      "Appointment creation requests by outcome.",
		}, []string{"outcome"}),

		OverlapScanSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "scheduling",
			Name:      "overlap_scan_size",
			Help:      "Number of stored appointments compared per creation request.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),

		RecordsDeletedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "records",
			Name:      "deleted_total",
			Help:      "Records deleted by resource type.",
		}, []string{"resource"}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query latency distribution.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"operation", "table"}),

		AuditEntriesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total audit log entries written.",
		}),

		AuditBufferDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "audit",
			Name:      "buffer_dropped_total",
			Help:      "Audit entries dropped due to full buffer. Alert if non-zero.",
		}),
	}
}

// ObserveQuery records how long a store operation on table took.
func (c *Collector) ObserveQuery(operation, table string, start time.Time) {
	c.DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
