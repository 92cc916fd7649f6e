package resilience

import "sync"

// Registry maps dependency names to their circuit breakers. It is safe
// for concurrent use and is intended to be constructed once and injected
// into every component that gates remote calls.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
}

// NewRegistry creates an empty breaker registry.
func NewRegistry() *Registry {
	return &Registry{
		breakers: make(map[string]*CircuitBreaker),
	}
}

// GetOrCreate returns the breaker for config.Name, creating it with the
// given config on first use. Subsequent calls for the same name return
// the existing instance regardless of config.
func (r *Registry) GetOrCreate(config Config) *CircuitBreaker {
	r.mu.RLock()
	cb, exists := r.breakers[config.Name]
	r.mu.RUnlock()
	if exists {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check: another goroutine may have created it.
	if cb, exists = r.breakers[config.Name]; exists {
		return cb
	}

	cb = New(config)
	r.breakers[config.Name] = cb
	return cb
}

// Get returns the breaker registered under name, if any.
func (r *Registry) Get(name string) (*CircuitBreaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.breakers[name]
	return cb, ok
}

// States returns a snapshot of every registered breaker's state.
func (r *Registry) States() map[string]State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make(map[string]State, len(r.breakers))
	for name, cb := range r.breakers {
		states[name] = cb.State()
	}
	return states
}
