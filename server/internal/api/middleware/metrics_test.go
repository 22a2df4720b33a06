package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/everest-platform/console/server/internal/metrics"
)

func metricsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics.Registry = prometheus.NewRegistry()
	metrics.HTTPRequestsTotal.Reset()
	metrics.HTTPRequestDuration.Reset()
	metrics.HTTPResponseSize.Reset()
	if err := metrics.Init(); err != nil {
		t.Fatalf("Failed to initialize metrics: %v", err)
	}
	router := gin.New()
	router.Use(MetricsMiddleware())
	return router
}

func TestMetricsMiddleware_LabelsByRouteTemplate(t *testing.T) {
	router := metricsRouter(t)
	const route = "/v1/namespaces/:namespace/database-clusters/:name"
	router.GET(route, func(c *gin.Context) {
		if c.Param("name") == "missing" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"name": c.Param("name")})
	})

	for _, path := range []string{
		"/v1/namespaces/dev/database-clusters/db1",
		"/v1/namespaces/dev/database-clusters/db2",
		"/v1/namespaces/prod/database-clusters/db1",
		"/v1/namespaces/prod/database-clusters/missing",
		"/v1/unknown",
	} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, route, "200")); got != 3 {
		t.Errorf("Expected 3 successful requests on the route template, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, route, "404")); got != 1 {
		t.Errorf("Expected 1 not found request, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")); got != 1 {
		t.Errorf("Expected 1 unmatched request, got %v", got)
	}
	if n := testutil.CollectAndCount(metrics.HTTPRequestsTotal); n != 3 {
		t.Errorf("Expected 3 request series, got %d", n)
	}
	if n := testutil.CollectAndCount(metrics.HTTPResponseSize); n != 2 {
		t.Errorf("Expected 2 response size series, got %d", n)
	}
	if got := sampleCount(t, "everest_http_response_size_bytes", "unmatched"); got != 1 {
		t.Errorf("Expected 1 response size sample for unmatched requests, got %d", got)
	}
}

func sampleCount(t *testing.T, name, path string) uint64 {
	t.Helper()
	families, err := metrics.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "path" && l.GetValue() == path {
					return m.GetHistogram().GetSampleCount()
				}
			}
		}
	}
	return 0
}

func TestMetricsMiddleware_InFlightRequests(t *testing.T) {
	router := metricsRouter(t)

	var during float64
	router.GET("/v1/version", func(c *gin.Context) {
		during = testutil.ToFloat64(metrics.HTTPRequestsInFlight)
		c.Status(http.StatusOK)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/version", nil))

	if during != 1 {
		t.Errorf("Expected 1 request in flight while handling, got %v", during)
	}
	if after := testutil.ToFloat64(metrics.HTTPRequestsInFlight); after != 0 {
		t.Errorf("Expected no requests in flight afterwards, got %v", after)
	}
}
