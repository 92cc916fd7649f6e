package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRegistry_GetOrCreateReturnsSameInstance(t *testing.T) {
	r := NewRegistry()

	a := r.GetOrCreate(DefaultConfig("backend-api"))
	b := r.GetOrCreate(DefaultConfig("backend-api"))

	if a != b {
		t.Error("expected the same breaker instance for the same name")
	}
}

func TestRegistry_DistinctNamesDistinctBreakers(t *testing.T) {
	r := NewRegistry()

	a := r.GetOrCreate(DefaultConfig("backend-api"))
	b := r.GetOrCreate(DefaultConfig("search-api"))

	if a == b {
		t.Error("expected distinct breakers for distinct names")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("missing"); ok {
		t.Error("expected miss for unregistered name")
	}

	created := r.GetOrCreate(DefaultConfig("backend-api"))
	got, ok := r.Get("backend-api")
	if !ok || got != created {
		t.Error("expected Get to return the created breaker")
	}
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	r := NewRegistry()

	breakers := make([]*CircuitBreaker, 50)
	var wg sync.WaitGroup
	for i := range breakers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			breakers[i] = r.GetOrCreate(DefaultConfig("backend-api"))
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(breakers); i++ {
		if breakers[i] != breakers[0] {
			t.Fatal("concurrent GetOrCreate returned different instances")
		}
	}
}

func TestRegistry_States(t *testing.T) {
	r := NewRegistry()

	cfg := Config{
		Name:                  "flaky",
		VolumeThreshold:       2,
		ErrorThresholdPercent: 50,
		ResetTimeout:          time.Hour,
	}
	cb := r.GetOrCreate(cfg)
	_ = r.GetOrCreate(DefaultConfig("healthy"))

	boom := errors.New("boom")
	_ = cb.Execute(func() error { return boom })
	_ = cb.Execute(func() error { return boom })

	states := r.States()
	if states["flaky"] != StateOpen {
		t.Errorf("expected 'flaky' open, got %s", states["flaky"])
	}
	if states["healthy"] != StateClosed {
		t.Errorf("expected 'healthy' closed, got %s", states["healthy"])
	}
}
