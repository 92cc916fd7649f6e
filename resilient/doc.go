// Package resilient wraps the raw backend client with circuit breaking,
// fallback caching and telemetry.
//
// Every operation runs through the same pipeline: open a trace span
// named "backend.<operation>", gate the call through the dependency's
// circuit breaker, record the outcome as metrics, and on success store
// the result in the fallback cache. When the breaker is open the last
// cached result is served instead; a cache miss surfaces as a
// *FallbackMissError, which unwraps to resilience.ErrCircuitOpen so
// callers can treat both as "temporarily unavailable".
package resilient
