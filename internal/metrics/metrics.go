// Package metrics exposes Prometheus instrumentation for the admin
// client: backend calls, sync outcomes, bulk items, duplicate checks.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbadmin",
			Name:      "backend_requests_total",
			Help:      "Total number of backend API requests",
		},
		[]string{"endpoint", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kbadmin",
			Name:      "backend_request_duration_seconds",
			Help:      "Backend API request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	SyncOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbadmin",
			Name:      "sync_operations_total",
			Help:      "Total vector sync operations by outcome",
		},
		[]string{"outcome"}, // synced, failed, deleted
	)

	BulkItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbadmin",
			Name:      "bulk_items_total",
			Help:      "Total bulk operation items by operation and status",
		},
		[]string{"operation", "status"},
	)

	DuplicateChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbadmin",
			Name:      "duplicate_checks_total",
			Help:      "Total duplicate checks by result",
		},
		[]string{"result"}, // clean, duplicates, unavailable
	)
)

func init() {
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendRequestDuration)
	prometheus.MustRegister(SyncOperationsTotal)
	prometheus.MustRegister(BulkItemsTotal)
	prometheus.MustRegister(DuplicateChecksTotal)
}
