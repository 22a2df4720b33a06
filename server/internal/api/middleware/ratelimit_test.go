package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everest-platform/console/server/internal/metrics"
	"github.com/everest-platform/console/server/internal/ratelimit"
)

func testRateLimiter(t *testing.T) *RateLimiter {
	t.Helper()
	metrics.Registry = prometheus.NewRegistry()
	require.NoError(t, metrics.Init())

	cfg := ratelimit.DefaultConfig()
	cfg.RequestsPerMin = 2
	cfg.UserRequestsPerMin = 1
	cfg.HealthChecksPerMin = 1
	cfg.LoginBaseTimeout = time.Second
	m := NewRateLimiter(cfg)
	t.Cleanup(m.Stop)
	return m
}

func TestRateLimiterByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := testRateLimiter(t)
	router := gin.New()
	router.Use(m.ByIP())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1000").Code)

	w := do("10.0.0.1:1000")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	assert.Equal(t, http.StatusOK, do("10.0.0.2:1000").Code, "other clients have their own budget")
}

func TestRateLimiterByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := testRateLimiter(t)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextKeyUser, c.GetHeader("X-User"))
		c.Next()
	})
	router.Use(m.ByUser())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("alice"))
	assert.Equal(t, http.StatusTooManyRequests, do("alice"))
	assert.Equal(t, http.StatusOK, do("bob"))
}

func TestRateLimiterHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := testRateLimiter(t)
	router := gin.New()
	router.GET("/health/live", m.HealthCheck(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	for range 2 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
