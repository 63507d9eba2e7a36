package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for HTTP requests and bootstrap runs,
// a counter for seeded rows, and histograms for request and query duration.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	BootstrapRuns       *prometheus.CounterVec
	SeededRows          prometheus.Counter
	DBQueryDuration     *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "demeter_http_requests_total",
			Help: "Total number of handled HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "demeter_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BootstrapRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "demeter_bootstrap_runs_total",
			Help: "Total times the schema initializer has completed, successfully or not.",
		}, []string{"status"}),
		SeededRows: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "demeter_seeded_rows_total",
			Help: "Total number of sample employees inserted into an empty table.",
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "demeter_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'list_employees', 'create_employee'
	}

	metrics.BootstrapRuns.WithLabelValues("success")
	metrics.BootstrapRuns.WithLabelValues("failure")

	return metrics
}
