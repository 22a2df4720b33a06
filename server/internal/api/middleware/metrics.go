package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/everest-platform/console/server/internal/metrics"
)

// MetricsMiddleware records request count, latency, response size and
// in-flight requests. Paths are reported by route template so that resource
// names do not blow up the label cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// gin writes the body of unmatched routes after the chain returns,
		// so nothing has been written yet and Size is -1.
		metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(max(c.Writer.Size(), 0)))
	}
}
