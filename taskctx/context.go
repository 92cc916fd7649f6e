package taskctx

import (
	"context"

	"github.com/google/uuid"
)

// RequestContext identifies a logical request.
type RequestContext struct {
	// RequestID uniquely identifies the logical request. Required once set.
	RequestID string
	// CorrelationID links this request to an upstream workflow. Optional.
	CorrelationID string
}

// contextKey is an unexported type for context keys to avoid collisions.
type contextKey struct{}

// With returns a context carrying the given RequestContext.
func With(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// From retrieves the RequestContext from ctx. The second return value
// reports whether one was attached.
func From(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(contextKey{}).(RequestContext)
	return rc, ok
}

// RequestID returns the request ID from ctx, or "" if none is attached.
func RequestID(ctx context.Context) string {
	rc, _ := From(ctx)
	return rc.RequestID
}

// CorrelationID returns the correlation ID from ctx, or "" if none is attached.
func CorrelationID(ctx context.Context) string {
	rc, _ := From(ctx)
	return rc.CorrelationID
}

// Run executes fn with rc attached for the duration of the call.
// It is the boundary helper for code that owns the start of a logical
// request.
func Run(ctx context.Context, rc RequestContext, fn func(ctx context.Context) error) error {
	return fn(With(ctx, rc))
}

// EnsureRequestID returns ctx unchanged if a request ID is already
// attached, otherwise attaches a freshly minted one. The effective
// request ID is returned either way.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if rc, ok := From(ctx); ok && rc.RequestID != "" {
		return ctx, rc.RequestID
	}
	rc, _ := From(ctx)
	rc.RequestID = uuid.NewString()
	return With(ctx, rc), rc.RequestID
}
