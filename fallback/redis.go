package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed fallback store.
type RedisConfig struct {
	// Addr is the Redis host:port.
	Addr string `yaml:"addr" mapstructure:"addr"`
	// Password authenticates the connection. Optional.
	Password string `yaml:"password" mapstructure:"password"`
	// DB selects the Redis logical database.
	DB int `yaml:"db" mapstructure:"db"`
	// KeyPrefix is prepended to every fallback key. Defaults to "fallback".
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
	// TTL expires entries. Zero means entries never expire.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
	// DialTimeout bounds connection establishment. Defaults to 5s.
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *RedisConfig) ApplyDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = "fallback"
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
}

// Validate checks that the configuration is usable.
func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("fallback: redis addr is required")
	}
	return nil
}

// RedisStore is a Store backed by Redis, for deployments that want
// fallback data shared across restarts.
type RedisStore struct {
	rdb       *goredis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore creates a Redis-backed store from the given config.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	return &RedisStore{
		rdb:       rdb,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
	}, nil
}

// Ping verifies the Redis connection is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("fallback: redis ping failed: %w", err)
	}
	return nil
}

// Get returns the cached value for (operation, key).
func (s *RedisStore) Get(ctx context.Context, operation, key string) ([]byte, bool, error) {
	raw, err := s.rdb.Get(ctx, s.fullKey(operation, key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("fallback: redis get %s/%s: %w", operation, key, err)
	}
	return raw, true, nil
}

// Put stores value as the last successful result for (operation, key).
func (s *RedisStore) Put(ctx context.Context, operation, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.fullKey(operation, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("fallback: redis set %s/%s: %w", operation, key, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) fullKey(operation, key string) string {
	return s.keyPrefix + ":" + entryKey(operation, key)
}

// compile-time interface checks
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
