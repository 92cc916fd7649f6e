package fallback

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T, cfg RedisConfig) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg.Addr = mr.Addr()

	store, err := NewRedisStore(cfg)
	if err != nil {
		t.Fatalf("unexpected error creating redis store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_PutAndGet(t *testing.T) {
	store := newTestRedisStore(t, RedisConfig{})
	ctx := context.Background()

	value := []byte(`{"id":"t-1","title":"write docs"}`)
	if err := store.Put(ctx, "getTask", `"t-1"`, value); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}

	got, ok, err := store.Get(ctx, "getTask", `"t-1"`)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if !bytes.Equal(got, value) {
		t.Errorf("round-trip mismatch: got %s, want %s", got, value)
	}
}

func TestRedisStore_MissIsNotAnError(t *testing.T) {
	store := newTestRedisStore(t, RedisConfig{})

	_, ok, err := store.Get(context.Background(), "getTask", `"never-seen"`)
	if err != nil {
		t.Fatalf("a miss must not be an error, got %v", err)
	}
	if ok {
		t.Error("expected a miss for an unseen key")
	}
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(RedisConfig{Addr: mr.Addr(), KeyPrefix: "sprintdeck"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if err := store.Put(ctx, "getTask", `"t-1"`, []byte(`"v"`)); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}

	if !mr.Exists(`sprintdeck:getTask:"t-1"`) {
		t.Errorf("expected prefixed key in redis, have keys %v", mr.Keys())
	}
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	_ = store.Put(ctx, "getTask", `"t-1"`, []byte(`"v"`))

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := store.Get(ctx, "getTask", `"t-1"`); ok {
		t.Error("expected a miss after the TTL elapsed")
	}
}

func TestRedisConfig_Validate(t *testing.T) {
	cfg := RedisConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing addr")
	}

	cfg.Addr = "localhost:6379"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}
