// Package ratelimit implements per-client request limits and the login
// attempts store of everest-server.
package ratelimit

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"
)

// LimitType selects the budget a request is charged against.
type LimitType string

const (
	// LimitTypeRequest is the general per-IP request budget.
	LimitTypeRequest LimitType = "request"

	// LimitTypeUser is the budget of an authenticated user.
	LimitTypeUser LimitType = "user"

	// LimitTypeHealthCheck is the budget of unauthenticated probes.
	LimitTypeHealthCheck LimitType = "health_check"
)

// Config holds the rate limits, expressed per minute.
type Config struct {
	RequestsPerMin     int
	UserRequestsPerMin int
	HealthChecksPerMin int

	// LoginFreeAttempts is the number of failed logins before a timeout starts.
	LoginFreeAttempts int
	// LoginBaseTimeout is the first timeout; it doubles with every further failure.
	LoginBaseTimeout time.Duration
	// LoginMaxTimeout caps the timeout.
	LoginMaxTimeout time.Duration
}

// DefaultConfig returns the limits everest-server starts with.
func DefaultConfig() Config {
	return Config{
		RequestsPerMin:     600,
		UserRequestsPerMin: 300,
		HealthChecksPerMin: 60,
		LoginFreeAttempts:  3,
		LoginBaseTimeout:   time.Second,
		LoginMaxTimeout:    5 * time.Minute,
	}
}

// Limiter keeps a token bucket per key.
type Limiter struct {
	storage *Storage[*rate.Limiter]
	config  Config
}

// NewLimiter returns a limiter. Buckets unused for an hour are dropped.
func NewLimiter(config Config) *Limiter {
	return &Limiter{
		storage: NewStorage[*rate.Limiter](time.Hour, 5*time.Minute),
		config:  config,
	}
}

// Allow charges one request to key. When the bucket is empty it returns
// false and the number of seconds until a token is available.
func (l *Limiter) Allow(key string, limitType LimitType) (allowed bool, retryAfter int) {
	lim := l.storage.GetOrCreate(key, func() *rate.Limiter { return l.newBucket(limitType) })

	now := time.Now()
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 60
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, max(1, int(math.Ceil(delay.Seconds())))
}

func (l *Limiter) newBucket(limitType LimitType) *rate.Limiter {
	perMin := l.config.RequestsPerMin
	switch limitType {
	case LimitTypeUser:
		perMin = l.config.UserRequestsPerMin
	case LimitTypeHealthCheck:
		perMin = l.config.HealthChecksPerMin
	}
	if perMin <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin)
}

// BuildKey joins a limit type and a client identifier.
func BuildKey(identifier string, limitType LimitType) string {
	return fmt.Sprintf("%s:%s", limitType, identifier)
}

// Stop releases the limiter's background goroutine.
func (l *Limiter) Stop() {
	l.storage.Stop()
}

// Count returns the number of live buckets.
func (l *Limiter) Count() int {
	return l.storage.Count()
}
