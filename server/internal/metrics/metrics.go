// Package metrics provides the Prometheus metrics of everest-server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "everest"

var (
	// Registry holds every everest-server collector. It is served on /metrics.
	Registry = prometheus.NewRegistry()

	// initialized is the registry Init last registered into.
	initialized *prometheus.Registry
)

// Init registers the runtime collectors and all everest metrics in Registry.
// Calling it again for the same Registry is a no-op.
func Init() error {
	if initialized == Registry {
		return nil
	}

	groups := [][]prometheus.Collector{
		{collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})},
		httpCollectors(),
		rateLimitCollectors(),
		kubernetesCollectors(),
		sessionCollectors(),
	}
	for _, group := range groups {
		if err := register(group...); err != nil {
			return err
		}
	}

	initialized = Registry
	return nil
}

// MustInit calls Init and panics on error.
func MustInit() {
	if err := Init(); err != nil {
		panic("failed to initialize metrics: " + err.Error())
	}
}

func register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
