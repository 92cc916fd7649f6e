// Package resilience implements the circuit breaker that guards calls
// to named remote dependencies.
//
// One CircuitBreaker instance owns the state for one dependency name.
// While closed it counts call outcomes; once the window reaches the
// volume threshold and the failure rate crosses the error threshold it
// opens and rejects calls with ErrCircuitOpen. After the reset timeout
// a single probe call is admitted: success closes the breaker, failure
// reopens it and restarts the timer.
//
//	cb := resilience.New(resilience.Config{
//	    Name:                  "backend-api",
//	    VolumeThreshold:       10,
//	    ErrorThresholdPercent: 50,
//	    ResetTimeout:          30 * time.Second,
//	})
//
//	err := cb.Execute(func() error {
//	    return client.Do(req)
//	})
//
// The Registry maps dependency names to breaker instances and is meant
// to be passed explicitly to whatever composes calls, not held as a
// package-level global.
package resilience
