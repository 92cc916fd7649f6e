// Package config loads application configuration from YAML files and
// environment variables and composes the per-package settings (logger,
// backend, breaker, fallback, observability) into one Config.
package config
