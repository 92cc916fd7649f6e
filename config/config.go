package config

import (
	"fmt"
	"time"

	"github.com/sprintdeck/taskkit/backend"
	"github.com/sprintdeck/taskkit/fallback"
	"github.com/sprintdeck/taskkit/logger"
	"github.com/sprintdeck/taskkit/resilience"
	"github.com/sprintdeck/taskkit/version"
)

// BaseConfig contains the fields every deployment needs.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "taskkit"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	switch c.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return fmt.Errorf("base.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
}

// BreakerConfig configures the backend circuit breaker.
type BreakerConfig struct {
	// Dependency names the breaker. Defaults to "backend-api".
	Dependency string `yaml:"dependency" mapstructure:"dependency"`

	// VolumeThreshold is the minimum calls in a window before the
	// breaker can open. Defaults to 10.
	VolumeThreshold int `yaml:"volume_threshold" mapstructure:"volume_threshold"`

	// ErrorThresholdPercent is the failure percentage that opens the
	// breaker. Defaults to 50.
	ErrorThresholdPercent float64 `yaml:"error_threshold_percent" mapstructure:"error_threshold_percent"`

	// ResetTimeout is how long the breaker stays open before allowing
	// a probe. Defaults to 30s.
	ResetTimeout time.Duration `yaml:"reset_timeout" mapstructure:"reset_timeout"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *BreakerConfig) ApplyDefaults() {
	if c.Dependency == "" {
		c.Dependency = "backend-api"
	}
	defaults := resilience.DefaultConfig(c.Dependency)
	if c.VolumeThreshold <= 0 {
		c.VolumeThreshold = defaults.VolumeThreshold
	}
	if c.ErrorThresholdPercent <= 0 {
		c.ErrorThresholdPercent = defaults.ErrorThresholdPercent
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = defaults.ResetTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *BreakerConfig) Validate() error {
	if c.ErrorThresholdPercent > 100 {
		return fmt.Errorf("breaker.error_threshold_percent must be at most 100 (got: %v)", c.ErrorThresholdPercent)
	}
	return nil
}

// ToResilience converts the section into a resilience.Config.
func (c *BreakerConfig) ToResilience() resilience.Config {
	return resilience.Config{
		Name:                  c.Dependency,
		VolumeThreshold:       c.VolumeThreshold,
		ErrorThresholdPercent: c.ErrorThresholdPercent,
		ResetTimeout:          c.ResetTimeout,
	}
}

// FallbackConfig configures the fallback cache store.
type FallbackConfig struct {
	// Store selects the backing store: "memory" (default) or "redis".
	Store string `yaml:"store" mapstructure:"store"`

	// TTL expires cached entries. Zero keeps them forever; fallback
	// data is last-known-good and staleness is acceptable.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// Redis configures the Redis store when Store is "redis".
	Redis fallback.RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *FallbackConfig) ApplyDefaults() {
	if c.Store == "" {
		c.Store = "memory"
	}
	if c.Store == "redis" {
		c.Redis.TTL = c.TTL
		c.Redis.ApplyDefaults()
	}
}

// Validate checks that the configuration is valid.
func (c *FallbackConfig) Validate() error {
	switch c.Store {
	case "memory":
		return nil
	case "redis":
		return c.Redis.Validate()
	default:
		return fmt.Errorf("fallback.store must be one of [memory, redis] (got: %s)", c.Store)
	}
}

// ObservabilityConfig configures OTel tracing and metrics export.
type ObservabilityConfig struct {
	// Enabled turns on the OTLP exporters.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Insecure allows plain HTTP export (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`

	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`

	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *ObservabilityConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate <= 0 {
		c.SampleRate = 1.0
	}
	if c.Interval <= 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks that the configuration is valid.
func (c *ObservabilityConfig) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be between 0 and 1 (got: %v)", c.SampleRate)
	}
	return nil
}

// Config composes all application settings.
type Config struct {
	Base          BaseConfig          `yaml:"base" mapstructure:"base"`
	Logger        logger.Config       `yaml:"logger" mapstructure:"logger"`
	Backend       backend.Config      `yaml:"backend" mapstructure:"backend"`
	Breaker       BreakerConfig       `yaml:"breaker" mapstructure:"breaker"`
	Fallback      FallbackConfig      `yaml:"fallback" mapstructure:"fallback"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.Base.ApplyDefaults()
	c.Logger.ApplyDefaults()
	c.Backend.ApplyDefaults()
	c.Breaker.ApplyDefaults()
	c.Fallback.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	if err := c.Breaker.Validate(); err != nil {
		return err
	}
	if err := c.Fallback.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}

// LoadApp loads, defaults and validates the application Config.
func LoadApp(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := Load(&cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
