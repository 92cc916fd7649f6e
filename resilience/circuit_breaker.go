package resilience

import (
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows requests to pass through.
	StateClosed State = iota
	// StateOpen blocks all requests.
	StateOpen
	// StateHalfOpen allows a single probe request to test recovery.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when the breaker rejects a call without
// invoking the underlying dependency.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config configures a circuit breaker.
type Config struct {
	// Name identifies the guarded dependency, e.g. "backend-api".
	Name string
	// VolumeThreshold is the minimum number of calls in the current
	// window before the error rate is evaluated. Guards against opening
	// on low-sample anomalies.
	VolumeThreshold int
	// ErrorThresholdPercent is the failure percentage (0-100) at or
	// above which the breaker opens.
	ErrorThresholdPercent float64
	// ResetTimeout is how long the breaker stays open before admitting
	// a single probe call.
	ResetTimeout time.Duration
	// OnStateChange is called on every state transition. It runs with
	// the breaker's mutex held and must not call back into the breaker.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns sensible defaults for the named dependency.
func DefaultConfig(name string) Config {
	return Config{
		Name:                  name,
		VolumeThreshold:       10,
		ErrorThresholdPercent: 50,
		ResetTimeout:          30 * time.Second,
	}
}

// CircuitBreaker guards calls to one named dependency. It tracks call
// outcomes over a counting window while closed, opens when the failure
// rate crosses the configured threshold, and admits a single probe call
// after the reset timeout to test recovery.
type CircuitBreaker struct {
	config Config

	mu              sync.Mutex
	state           State
	windowFailures  int
	windowSuccesses int
	windowTotal     int
	lastStateChange time.Time
	probeInFlight   bool

	// nowFunc is used for testing; defaults to time.Now.
	nowFunc func() time.Time
}

// New creates a circuit breaker in the closed state.
func New(config Config) *CircuitBreaker {
	if config.VolumeThreshold <= 0 {
		config.VolumeThreshold = 10
	}
	if config.ErrorThresholdPercent <= 0 {
		config.ErrorThresholdPercent = 50
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}

	return &CircuitBreaker{
		config:  config,
		state:   StateClosed,
		nowFunc: time.Now,
	}
}

// Name returns the guarded dependency name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Execute runs fn through the breaker gate. It returns ErrCircuitOpen
// without invoking fn when the breaker rejects the call; otherwise fn's
// own error is returned unchanged.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	probe, err := cb.allow()
	if err != nil {
		return err
	}

	callErr := fn()
	cb.record(probe, callErr)
	return callErr
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Counts returns the window counters accumulated since the last state
// transition: total calls, successes, failures.
func (cb *CircuitBreaker) Counts() (total, successes, failures int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.windowTotal, cb.windowSuccesses, cb.windowFailures
}

// Reset forces the breaker back to the closed state with fresh counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probeInFlight = false
	cb.toState(StateClosed)
}

// allow decides whether a call may proceed. The returned probe flag is
// true when the call was admitted as the single half-open probe.
func (cb *CircuitBreaker) allow() (probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return false, nil
	case StateOpen:
		if cb.nowFunc().Sub(cb.lastStateChange) < cb.config.ResetTimeout {
			return false, ErrCircuitOpen
		}
		// Reset timeout elapsed: claim the probe slot and let this
		// single call through.
		cb.toState(StateHalfOpen)
		cb.probeInFlight = true
		return true, nil
	case StateHalfOpen:
		// A probe is already outstanding; reject as if open.
		return false, ErrCircuitOpen
	default:
		return false, ErrCircuitOpen
	}
}

// record applies a completed call's outcome to the breaker state.
func (cb *CircuitBreaker) record(probe bool, callErr error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if probe {
		cb.probeInFlight = false
		if callErr != nil {
			// Failed probe: reopen and restart the reset timer.
			cb.toState(StateOpen)
		} else {
			cb.toState(StateClosed)
		}
		return
	}

	// Window counters only accumulate while closed. A call admitted
	// while closed that completes after the breaker opened is dropped.
	if cb.state != StateClosed {
		return
	}

	cb.windowTotal++
	if callErr != nil {
		cb.windowFailures++
	} else {
		cb.windowSuccesses++
	}

	if cb.windowTotal < cb.config.VolumeThreshold {
		return
	}
	failurePercent := float64(cb.windowFailures) / float64(cb.windowTotal) * 100
	if failurePercent >= cb.config.ErrorThresholdPercent {
		cb.toState(StateOpen)
	}
}

// toState transitions to a new state, resetting window counters and
// stamping the transition time. Caller must hold cb.mu.
func (cb *CircuitBreaker) toState(to State) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to
	cb.lastStateChange = cb.nowFunc()
	cb.windowTotal = 0
	cb.windowSuccesses = 0
	cb.windowFailures = 0

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}
