package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Store is the last-known-good cache consulted when a circuit breaker
// denies a live call.
type Store interface {
	// Get returns the cached value for (operation, key). The bool
	// reports whether an entry exists; a miss is not an error.
	Get(ctx context.Context, operation, key string) ([]byte, bool, error)
	// Put stores value as the last successful result for (operation, key),
	// overwriting any previous entry.
	Put(ctx context.Context, operation, key string, value []byte) error
}

// Key derives a deterministic cache key from operation arguments using
// their JSON encoding. Go encodes map keys in sorted order, so the same
// arguments always produce the same key.
func Key(args ...any) string {
	if len(args) == 0 {
		return "_"
	}

	parts := make([]string, len(args))
	for i, arg := range args {
		data, err := json.Marshal(arg)
		if err != nil {
			// Unencodable arguments still need a stable-ish key; fall
			// back to the value's string form.
			parts[i] = fmt.Sprintf("%v", arg)
			continue
		}
		parts[i] = string(data)
	}
	return strings.Join(parts, "|")
}
