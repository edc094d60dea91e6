package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Audit trail: one increment per write attempt, labeled by outcome
	// (written | actor_not_found | target_not_found | unknown_kind | store_error).
	AuditWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_writes_total",
			Help: "Audit record write attempts by outcome",
		},
		[]string{"outcome"},
	)

	ItemsRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "items_registered_total",
			Help: "Total items registered",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(AuditWrites)
	prometheus.MustRegister(ItemsRegistered)
	prometheus.MustRegister(WorkerQueueDepth)
}
