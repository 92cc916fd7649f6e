package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYAML = `
base:
  name: taskkit-test
  environment: staging
logger:
  level: debug
  format: json
backend:
  base_url: http://backend.local:8080
  timeout: 10s
breaker:
  volume_threshold: 5
  error_threshold_percent: 25
  reset_timeout: 45s
fallback:
  store: redis
  ttl: 1h
  redis:
    addr: localhost:6379
    key_prefix: tk
observability:
  enabled: true
  endpoint: otel.local:4318
  sample_rate: 0.5
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadApp_FromYAML(t *testing.T) {
	path := writeTempConfig(t, testYAML)

	cfg, err := LoadApp(WithConfigFile(path))
	if err != nil {
		t.Fatalf("LoadApp() error = %v", err)
	}

	if cfg.Base.Name != "taskkit-test" || cfg.Base.Environment != "staging" {
		t.Errorf("unexpected base config: %+v", cfg.Base)
	}
	if cfg.Logger.Level != "debug" || cfg.Logger.Format != "json" {
		t.Errorf("unexpected logger config: %+v", cfg.Logger)
	}
	if cfg.Backend.BaseURL != "http://backend.local:8080" {
		t.Errorf("unexpected backend base_url: %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("unexpected backend timeout: %v", cfg.Backend.Timeout)
	}
	if cfg.Breaker.VolumeThreshold != 5 || cfg.Breaker.ErrorThresholdPercent != 25 {
		t.Errorf("unexpected breaker config: %+v", cfg.Breaker)
	}
	if cfg.Breaker.ResetTimeout != 45*time.Second {
		t.Errorf("unexpected reset timeout: %v", cfg.Breaker.ResetTimeout)
	}
	if cfg.Fallback.Store != "redis" || cfg.Fallback.Redis.KeyPrefix != "tk" {
		t.Errorf("unexpected fallback config: %+v", cfg.Fallback)
	}
	if cfg.Fallback.Redis.TTL != time.Hour {
		t.Errorf("expected redis TTL inherited from fallback.ttl, got %v", cfg.Fallback.Redis.TTL)
	}
	if !cfg.Observability.Enabled || cfg.Observability.SampleRate != 0.5 {
		t.Errorf("unexpected observability config: %+v", cfg.Observability)
	}
}

func TestLoadApp_EnvOverride(t *testing.T) {
	path := writeTempConfig(t, testYAML)
	t.Setenv("TASKKIT_BACKEND_BASE_URL", "http://override.local")

	cfg, err := LoadApp(WithConfigFile(path))
	if err != nil {
		t.Fatalf("LoadApp() error = %v", err)
	}
	if cfg.Backend.BaseURL != "http://override.local" {
		t.Errorf("expected env override, got %q", cfg.Backend.BaseURL)
	}
}

func TestLoadApp_Defaults(t *testing.T) {
	path := writeTempConfig(t, "backend:\n  base_url: http://backend.local\n")

	cfg, err := LoadApp(WithConfigFile(path))
	if err != nil {
		t.Fatalf("LoadApp() error = %v", err)
	}

	if cfg.Base.Name != "taskkit" || cfg.Base.Environment != "development" {
		t.Errorf("unexpected base defaults: %+v", cfg.Base)
	}
	if cfg.Breaker.Dependency != "backend-api" {
		t.Errorf("expected default dependency 'backend-api', got %q", cfg.Breaker.Dependency)
	}
	if cfg.Breaker.VolumeThreshold != 10 || cfg.Breaker.ErrorThresholdPercent != 50 {
		t.Errorf("unexpected breaker defaults: %+v", cfg.Breaker)
	}
	if cfg.Breaker.ResetTimeout != 30*time.Second {
		t.Errorf("unexpected default reset timeout: %v", cfg.Breaker.ResetTimeout)
	}
	if cfg.Fallback.Store != "memory" {
		t.Errorf("expected default fallback store 'memory', got %q", cfg.Fallback.Store)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("unexpected default backend timeout: %v", cfg.Backend.Timeout)
	}
}

func TestLoadApp_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad environment", "base:\n  environment: prod\nbackend:\n  base_url: http://x\n"},
		{"missing backend url", "base:\n  environment: development\n"},
		{"bad fallback store", "backend:\n  base_url: http://x\nfallback:\n  store: sqlite\n"},
		{"threshold above 100", "backend:\n  base_url: http://x\nbreaker:\n  error_threshold_percent: 150\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, tt.yaml)
			if _, err := LoadApp(WithConfigFile(path)); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("TASKKIT_LOGGER_LEVEL=warn\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	configPath := writeTempConfig(t, "backend:\n  base_url: http://backend.local\n")

	// godotenv mutates the process environment.
	t.Cleanup(func() { _ = os.Unsetenv("TASKKIT_LOGGER_LEVEL") })

	cfg, err := LoadApp(WithConfigFile(configPath), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("LoadApp() error = %v", err)
	}
	if cfg.Logger.Level != "warn" {
		t.Errorf("expected level from .env file, got %q", cfg.Logger.Level)
	}
}
