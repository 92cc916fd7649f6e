package resilient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sprintdeck/taskkit/backend"
	"github.com/sprintdeck/taskkit/fallback"
	"github.com/sprintdeck/taskkit/logger"
	"github.com/sprintdeck/taskkit/observability"
	"github.com/sprintdeck/taskkit/resilience"
)

// defaultDependency names the breaker guarding the task-management API.
const defaultDependency = "backend-api"

// Backend is the operation surface of the raw backend client.
// *backend.Client satisfies it; tests substitute stubs.
type Backend interface {
	GetTask(ctx context.Context, taskID string) (*backend.Task, error)
	CreateTask(ctx context.Context, input backend.CreateTaskInput) (*backend.Task, error)
	UpdateTask(ctx context.Context, taskID string, input backend.UpdateTaskInput) (*backend.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	ListTasks(ctx context.Context, filter backend.TaskFilter) ([]backend.Task, error)
	GetProject(ctx context.Context, projectID string) (*backend.Project, error)
	ListProjects(ctx context.Context) ([]backend.Project, error)
	GetSprint(ctx context.Context, sprintID string) (*backend.Sprint, error)
	ListSprints(ctx context.Context, projectID string) ([]backend.Sprint, error)
	ListActionItems(ctx context.Context, projectID string) ([]backend.ActionItem, error)
	Health(ctx context.Context) (*backend.Health, error)
}

var _ Backend = (*backend.Client)(nil)

// MetricsRecorder receives call outcomes and breaker transitions.
// *observability.Metrics satisfies it.
type MetricsRecorder interface {
	RecordBackendRequest(ctx context.Context, breakerTag, dependency string, statusCode int, latency time.Duration, errorReason string)
	RecordCircuitBreakerEvent(ctx context.Context, dependency, newState string)
}

var _ MetricsRecorder = (*observability.Metrics)(nil)

// Options configures the resilient client.
type Options struct {
	// Backend is the raw client being wrapped. Required.
	Backend Backend

	// Registry holds the process's circuit breakers. A new registry is
	// created when nil; share one registry across clients to share
	// breaker state per dependency name.
	Registry *resilience.Registry

	// Cache is the fallback store. Defaults to an in-memory store.
	Cache fallback.Store

	// Metrics receives telemetry. Nil disables metric recording.
	Metrics MetricsRecorder

	// Logger defaults to the global logger tagged with the component.
	Logger *logger.Logger

	// Dependency names the breaker. Defaults to "backend-api".
	Dependency string

	// Breaker overrides the breaker settings. Nil uses defaults.
	// Its Name and OnStateChange are managed by the client.
	Breaker *resilience.Config
}

// Client presents the backend operation surface with circuit breaking,
// fallback caching and telemetry around every call.
type Client struct {
	backend    Backend
	breaker    *resilience.CircuitBreaker
	cache      fallback.Store
	metrics    MetricsRecorder
	log        *logger.Logger
	dependency string
}

// New creates a resilient client around the given backend.
func New(opts Options) (*Client, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("resilient: backend is required")
	}

	dependency := opts.Dependency
	if dependency == "" {
		dependency = defaultDependency
	}

	registry := opts.Registry
	if registry == nil {
		registry = resilience.NewRegistry()
	}

	cache := opts.Cache
	if cache == nil {
		cache = fallback.NewMemoryStore()
	}

	log := opts.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("resilient")

	c := &Client{
		backend:    opts.Backend,
		cache:      cache,
		metrics:    opts.Metrics,
		log:        log,
		dependency: dependency,
	}

	breakerCfg := resilience.DefaultConfig(dependency)
	if opts.Breaker != nil {
		breakerCfg = *opts.Breaker
		breakerCfg.Name = dependency
	}
	userCallback := breakerCfg.OnStateChange
	breakerCfg.OnStateChange = func(name string, from, to resilience.State) {
		c.onBreakerTransition(name, from, to)
		if userCallback != nil {
			userCallback(name, from, to)
		}
	}
	c.breaker = registry.GetOrCreate(breakerCfg)

	return c, nil
}

// BreakerState reports the current state of the dependency's breaker.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// onBreakerTransition records and logs a breaker state change. It runs
// under the breaker mutex and must stay non-blocking.
func (c *Client) onBreakerTransition(name string, from, to resilience.State) {
	if c.metrics != nil {
		c.metrics.RecordCircuitBreakerEvent(context.Background(), name, to.String())
	}

	fields := logger.Fields(
		logger.FieldDependency, name,
		logger.FieldState, to.String(),
		"previous_state", from.String(),
	)
	if to == resilience.StateOpen {
		c.log.Warn("circuit breaker opened", fields)
	} else {
		c.log.Info("circuit breaker state changed", fields)
	}
}

// call runs one backend operation through the resilience pipeline:
// span, breaker gate, metrics, fallback cache. Every exported operation
// delegates here; none duplicates the flow.
func call[T any](ctx context.Context, c *Client, operation string, argsCount int, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	start := time.Now()

	err := observability.WithSpan(ctx, observability.SpanName(operation), func(ctx context.Context, span trace.Span) error {
		span.SetAttributes(
			attribute.String(observability.AttrBackendMethod, operation),
			attribute.Int(observability.AttrBackendArgsCount, argsCount),
		)

		execErr := c.breaker.Execute(func() error {
			r, err := fn(ctx)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
		latency := time.Since(start)

		switch {
		case execErr == nil:
			c.recordRequest(ctx, http.StatusOK, latency, "")
			c.cachePut(ctx, operation, key, result)
			return nil

		case errors.Is(execErr, resilience.ErrCircuitOpen):
			if c.cacheGet(ctx, operation, key, &result) {
				span.SetAttributes(attribute.Bool("fallback", true))
				c.log.WithContext(ctx).Info("serving fallback value", logger.Fields(
					logger.FieldOperation, operation,
					logger.FieldDependency, c.dependency,
				))
				return nil
			}
			c.recordRequest(ctx, http.StatusServiceUnavailable, 0, "circuit_open")
			return &FallbackMissError{Operation: operation, Key: key}

		default:
			status := backend.StatusCode(execErr)
			if status == 0 {
				status = http.StatusInternalServerError
			}
			c.recordRequest(ctx, status, latency, "circuit_failure")
			return execErr
		}
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// recordRequest emits the per-call metric. Recording never affects the
// call outcome.
func (c *Client) recordRequest(ctx context.Context, statusCode int, latency time.Duration, errorReason string) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordBackendRequest(ctx, c.breaker.Name(), c.dependency, statusCode, latency, errorReason)
}

// cachePut stores a successful result as JSON. Failures are logged and
// swallowed; bookkeeping never alters the call outcome.
func (c *Client) cachePut(ctx context.Context, operation, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.WithContext(ctx).WithError(err).Warn("fallback cache encode failed", logger.Fields(logger.FieldOperation, operation))
		return
	}
	if err := c.cache.Put(ctx, operation, key, data); err != nil {
		c.log.WithContext(ctx).WithError(err).Warn("fallback cache write failed", logger.Fields(logger.FieldOperation, operation))
	}
}

// cacheGet loads a cached result into out. Read and decode failures are
// logged and treated as misses.
func (c *Client) cacheGet(ctx context.Context, operation, key string, out any) bool {
	data, ok, err := c.cache.Get(ctx, operation, key)
	if err != nil {
		c.log.WithContext(ctx).WithError(err).Warn("fallback cache read failed", logger.Fields(logger.FieldOperation, operation))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.log.WithContext(ctx).WithError(err).Warn("fallback cache entry not decodable", logger.Fields(logger.FieldOperation, operation))
		return false
	}
	return true
}
