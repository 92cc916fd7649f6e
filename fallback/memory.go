package fallback

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value    []byte
	storedAt time.Time
}

// MemoryStore is an in-process Store backed by a map. Writes are
// last-write-wins; concurrent writers for the same key are benign.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	// nowFunc is used for testing; defaults to time.Now.
	nowFunc func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithTTL expires entries older than d on read. Zero (the default)
// means entries never expire: fallback data is "last known good" and
// staleness is acceptable.
func WithTTL(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached value for (operation, key), if present and
// within the TTL when one is configured.
func (s *MemoryStore) Get(_ context.Context, operation, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[entryKey(operation, key)]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if s.ttl > 0 && s.nowFunc().Sub(entry.storedAt) > s.ttl {
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Put stores value as the last successful result for (operation, key).
func (s *MemoryStore) Put(_ context.Context, operation, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entryKey(operation, key)] = memoryEntry{
		value:    value,
		storedAt: s.nowFunc(),
	}
	return nil
}

// Len returns the number of cached entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func entryKey(operation, key string) string {
	return operation + ":" + key
}
