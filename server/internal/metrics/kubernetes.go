package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// KubernetesRequestsTotal counts API server requests by verb, resource and outcome.
	KubernetesRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kubernetes_requests_total",
			Help:      "Total number of Kubernetes API requests",
		},
		[]string{"verb", "resource", "status"},
	)

	// KubernetesRequestDuration measures API server latency in seconds.
	KubernetesRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kubernetes_request_duration_seconds",
			Help:      "Kubernetes API request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"verb", "resource"},
	)
)

func kubernetesCollectors() []prometheus.Collector {
	return []prometheus.Collector{KubernetesRequestsTotal, KubernetesRequestDuration}
}

// ObserveKubernetesRequest records one API server request.
// It has the signature of kubernetes.RequestObserver.
func ObserveKubernetesRequest(verb, resource string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	KubernetesRequestsTotal.WithLabelValues(verb, resource, status).Inc()
	KubernetesRequestDuration.WithLabelValues(verb, resource).Observe(d.Seconds())
}
