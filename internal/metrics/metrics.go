package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slashbot_requests_total",
			Help: "Total number of webhook requests by command and HTTP status",
		},
		[]string{"command", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slashbot_request_duration_seconds",
			Help:    "Duration of webhook request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	LedgerAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slashbot_ledger_adjustments_total",
			Help: "Ledger adjustments by outcome",
		},
		[]string{"outcome"},
	)

	PersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slashbot_persist_failures_total",
			Help: "Snapshot writes that failed, by snapshot owner",
		},
		[]string{"owner"},
	)
)
