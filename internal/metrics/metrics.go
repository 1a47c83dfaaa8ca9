package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the service
type Metrics struct {
	RequestCounter       *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	VotesCast            *prometheus.CounterVec
	LedgerFailures       *prometheus.CounterVec
	CompensationFailures prometheus.Counter
	UnconfirmedVotes     prometheus.Counter
}

// New creates a new metrics instance registered on the default registry.
func New(serviceName string) *Metrics {
	return &Metrics{
		RequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fanzone",
				Subsystem: serviceName,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fanzone",
				Subsystem: serviceName,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		VotesCast: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fanzone",
				Subsystem: serviceName,
				Name:      "votes_cast_total",
				Help:      "Votes accepted by the poll ledger",
			},
			[]string{"gated"},
		),
		LedgerFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fanzone",
				Subsystem: serviceName,
				Name:      "ledger_failures_total",
				Help:      "Vote attempts rejected by the ledger",
			},
			[]string{"kind"},
		),
		CompensationFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "fanzone",
				Subsystem: serviceName,
				Name:      "compensation_failures_total",
				Help:      "Failed wallet compensations (ledger and wallet inconsistent)",
			},
		),
		UnconfirmedVotes: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "fanzone",
				Subsystem: serviceName,
				Name:      "unconfirmed_votes_total",
				Help:      "Optimistic votes kept locally after a remote failure",
			},
		),
	}
}
