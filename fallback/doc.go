// Package fallback stores the last successful result of each remote
// operation so it can be served while the operation's circuit breaker
// is open.
//
// Entries are keyed by (operation, argument key) and hold the JSON
// encoding of the successful result. Staleness is expected and
// acceptable: the cache is only consulted when the live dependency is
// known to be failing, and every later success overwrites the entry.
// A miss is a legitimate outcome, not an error.
//
// MemoryStore keeps entries in-process; RedisStore keeps them in Redis
// so fallback data survives restarts. Both satisfy Store.
package fallback
