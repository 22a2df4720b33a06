package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"
)

type entry[T any] struct {
	value    T
	lastSeen atomic.Int64
}

func (s *Storage[T]) newEntry(value T) *entry[T] {
	e := &entry[T]{value: value}
	e.lastSeen.Store(s.now().UnixNano())
	return e
}

// Storage is a concurrent map whose entries expire when they have not been
// touched for ttl. A background goroutine sweeps expired entries every
// interval until Stop is called.
type Storage[T any] struct {
	entries sync.Map
	ttl     time.Duration
	now     func() time.Time

	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewStorage returns a storage and starts its cleanup goroutine.
func NewStorage[T any](ttl, interval time.Duration) *Storage[T] {
	s := &Storage[T]{
		ttl:    ttl,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.cleanup()
			case <-s.stopCh:
				return
			}
		}
	}()
	return s
}

// GetOrCreate returns the value under key, creating it with create when
// missing, and marks the entry as used.
func (s *Storage[T]) GetOrCreate(key string, create func() T) T {
	v, ok := s.entries.Load(key)
	if !ok {
		v, _ = s.entries.LoadOrStore(key, s.newEntry(create()))
	}
	e := v.(*entry[T])
	e.lastSeen.Store(s.now().UnixNano())
	return e.value
}

// Get returns the value under key.
func (s *Storage[T]) Get(key string) (T, bool) {
	v, ok := s.entries.Load(key)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(*entry[T]).value, true
}

// Set stores value under key.
func (s *Storage[T]) Set(key string, value T) {
	s.entries.Store(key, s.newEntry(value))
}

// Delete removes key.
func (s *Storage[T]) Delete(key string) {
	s.entries.Delete(key)
}

// Range calls fn for every live value until fn returns false.
func (s *Storage[T]) Range(fn func(key string, value T) bool) {
	s.entries.Range(func(k, v any) bool {
		return fn(k.(string), v.(*entry[T]).value)
	})
}

// Count returns the number of stored entries.
func (s *Storage[T]) Count() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (s *Storage[T]) cleanup() {
	threshold := s.now().Add(-s.ttl).UnixNano()
	s.entries.Range(func(k, v any) bool {
		if v.(*entry[T]).lastSeen.Load() < threshold {
			s.entries.Delete(k)
		}
		return true
	})
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (s *Storage[T]) Stop() {
	s.once.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}
