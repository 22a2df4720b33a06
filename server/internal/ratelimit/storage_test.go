package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStorage_GetSet(t *testing.T) {
	s := NewStorage[int](time.Hour, time.Hour)
	defer s.Stop()

	if _, ok := s.Get("missing"); ok {
		t.Error("Get() found a missing key")
	}
	s.Set("a", 1)
	if v, ok := s.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	s.Delete("a")
	if _, ok := s.Get("a"); ok {
		t.Error("Get() found a deleted key")
	}
}

func TestStorage_GetOrCreate(t *testing.T) {
	s := NewStorage[*int](time.Hour, time.Hour)
	defer s.Stop()

	calls := 0
	create := func() *int {
		calls++
		v := 0
		return &v
	}
	first := s.GetOrCreate("k", create)
	second := s.GetOrCreate("k", create)
	if first != second {
		t.Error("GetOrCreate() returned different values for the same key")
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
}

func TestStorage_ConcurrentAccess(t *testing.T) {
	s := NewStorage[int](time.Hour, time.Hour)
	defer s.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%10)
			s.GetOrCreate(key, func() int { return i })
			s.Get(key)
		}(i)
	}
	wg.Wait()

	if got := s.Count(); got != 10 {
		t.Errorf("Count() = %d, want 10", got)
	}
}

func TestStorage_Cleanup(t *testing.T) {
	s := NewStorage[int](time.Minute, time.Hour)
	defer s.Stop()

	now := time.Now()
	s.now = func() time.Time { return now }
	s.Set("old", 1)
	now = now.Add(2 * time.Minute)
	s.Set("fresh", 2)

	s.cleanup()

	if _, ok := s.Get("old"); ok {
		t.Error("expired entry survived cleanup")
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Error("fresh entry was removed")
	}
}

func TestStorage_StopTwice(t *testing.T) {
	s := NewStorage[int](time.Hour, time.Millisecond)
	s.Stop()
	s.Stop()
}
