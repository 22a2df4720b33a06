package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/everest-platform/console/server/internal/metrics"
	"github.com/everest-platform/console/server/internal/ratelimit"
)

// RateLimiter applies the per-IP, per-user and health check budgets of a
// ratelimit.Limiter and answers 429 with a Retry-After header when a budget
// is exhausted.
type RateLimiter struct {
	limiter *ratelimit.Limiter
}

// NewRateLimiter returns a RateLimiter for config. Call Stop when done.
func NewRateLimiter(config ratelimit.Config) *RateLimiter {
	return &RateLimiter{limiter: ratelimit.NewLimiter(config)}
}

// ByIP charges every request to the client address.
func (m *RateLimiter) ByIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.check(c, c.ClientIP(), ratelimit.LimitTypeRequest)
	}
}

// ByUser charges requests to the authenticated user. It must run after
// RequireSession; requests without a user are charged to their address.
func (m *RateLimiter) ByUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetUser(c)
		if id == "" {
			id = c.ClientIP()
		}
		m.check(c, id, ratelimit.LimitTypeUser)
	}
}

// HealthCheck limits unauthenticated probes per client address.
func (m *RateLimiter) HealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.check(c, c.ClientIP(), ratelimit.LimitTypeHealthCheck)
	}
}

func (m *RateLimiter) check(c *gin.Context, identifier string, limitType ratelimit.LimitType) {
	allowed, retryAfter := m.limiter.Allow(ratelimit.BuildKey(identifier, limitType), limitType)
	metrics.RateLimitChecks.WithLabelValues(string(limitType), strconv.FormatBool(allowed)).Inc()
	if allowed {
		c.Next()
		return
	}
	metrics.RateLimitBlocks.WithLabelValues(string(limitType)).Inc()
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":      "rate_limit_exceeded",
		"message":    "Rate limit exceeded",
		"request_id": GetRequestID(c),
	})
}

// Stop releases the limiter's background goroutine.
func (m *RateLimiter) Stop() {
	m.limiter.Stop()
}
