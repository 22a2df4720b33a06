package ratelimit

import (
	"math"
	"sync"
	"time"
)

type visitor struct {
	mu           sync.Mutex
	failures     int
	blockedUntil time.Time
}

// AttemptsStore tracks failed logins per client address and puts clients
// that keep failing into a timeout that doubles with every failure.
type AttemptsStore struct {
	storage *Storage[*visitor]
	config  Config
	now     func() time.Time
}

// NewAttemptsStore returns a store. Visitors idle for longer than the
// maximum timeout are forgotten.
func NewAttemptsStore(config Config) *AttemptsStore {
	ttl := max(config.LoginMaxTimeout, time.Minute)
	return &AttemptsStore{
		storage: NewStorage[*visitor](ttl, time.Minute),
		config:  config,
		now:     time.Now,
	}
}

// IncreaseTimeout records a failed attempt by ip.
func (a *AttemptsStore) IncreaseTimeout(ip string) {
	v := a.storage.GetOrCreate(ip, func() *visitor { return &visitor{} })
	v.mu.Lock()
	defer v.mu.Unlock()

	v.failures++
	if timeout := a.timeout(v.failures); timeout > 0 {
		v.blockedUntil = a.now().Add(timeout)
	}
}

func (a *AttemptsStore) timeout(failures int) time.Duration {
	over := failures - a.config.LoginFreeAttempts
	if over <= 0 {
		return 0
	}
	d := time.Duration(float64(a.config.LoginBaseTimeout) * math.Pow(2, float64(over-1)))
	if d <= 0 || d > a.config.LoginMaxTimeout {
		return a.config.LoginMaxTimeout
	}
	return d
}

// IsInTimeout reports whether ip is blocked and for how much longer.
func (a *AttemptsStore) IsInTimeout(ip string) (bool, time.Duration) {
	v, ok := a.storage.Get(ip)
	if !ok {
		return false, 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	remaining := v.blockedUntil.Sub(a.now())
	if remaining <= 0 {
		return false, 0
	}
	return true, remaining
}

// CleanupVisitor forgets ip after a successful login.
func (a *AttemptsStore) CleanupVisitor(ip string) {
	a.storage.Delete(ip)
}

// BlockedCount returns the number of clients currently in a timeout.
func (a *AttemptsStore) BlockedCount() int {
	n := 0
	now := a.now()
	a.storage.Range(func(_ string, v *visitor) bool {
		v.mu.Lock()
		if v.blockedUntil.After(now) {
			n++
		}
		v.mu.Unlock()
		return true
	})
	return n
}

// Stop releases the store's background goroutine.
func (a *AttemptsStore) Stop() {
	a.storage.Stop()
}
