package resilient

import (
	"fmt"

	"github.com/sprintdeck/taskkit/resilience"
)

// FallbackMissError reports that the circuit breaker rejected a call
// and the fallback cache held no value for the operation and key.
type FallbackMissError struct {
	// Operation is the rejected operation, e.g. "getTask".
	Operation string
	// Key is the cache key derived from the operation arguments.
	Key string
}

// Error implements the error interface.
func (e *FallbackMissError) Error() string {
	return fmt.Sprintf("resilient: circuit open and no fallback for %s (key %s)", e.Operation, e.Key)
}

// Unwrap returns resilience.ErrCircuitOpen so that
// errors.Is(err, resilience.ErrCircuitOpen) holds for fallback misses.
func (e *FallbackMissError) Unwrap() error {
	return resilience.ErrCircuitOpen
}
