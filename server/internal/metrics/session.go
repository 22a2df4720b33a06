package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SessionsIssued counts successful logins.
	SessionsIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_issued_total",
			Help:      "Total number of session tokens issued",
		},
	)

	// BlocklistSize is the number of revoked, unexpired session tokens.
	BlocklistSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_blocklist_size",
			Help:      "Number of revoked session tokens in the blocklist",
		},
	)

	// RBACDenials counts requests refused by the RBAC policy.
	RBACDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rbac_denials_total",
			Help:      "Total number of operations denied by RBAC",
		},
		[]string{"resource", "action"},
	)
)

func sessionCollectors() []prometheus.Collector {
	return []prometheus.Collector{SessionsIssued, BlocklistSize, RBACDenials}
}
