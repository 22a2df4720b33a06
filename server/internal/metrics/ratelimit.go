package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RateLimitChecks counts rate limit decisions by limiter and result.
	RateLimitChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_checks_total",
			Help:      "Total number of rate limit checks",
		},
		[]string{"limit_type", "allowed"},
	)

	// RateLimitBlocks counts rejected requests by limiter.
	RateLimitBlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_blocks_total",
			Help:      "Total number of requests rejected by a rate limiter",
		},
		[]string{"limit_type"},
	)

	// LoginFailures counts failed logins by reason.
	LoginFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_failures_total",
			Help:      "Total number of failed login attempts",
		},
		[]string{"reason"},
	)

	// LoginTimeouts is the number of client addresses currently locked out of login.
	LoginTimeouts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "login_timeouts",
			Help:      "Number of client addresses in a login timeout",
		},
	)
)

func rateLimitCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		RateLimitChecks,
		RateLimitBlocks,
		LoginFailures,
		LoginTimeouts,
	}
}
