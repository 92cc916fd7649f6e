// Package taskctx carries per-request identifiers across the call tree
// of a logical request.
//
// A RequestContext is attached at the boundary where a logical request
// begins (an inbound tool invocation, a job pickup) and travels on the
// context.Context through every nested call, so telemetry can tag spans
// and metrics without threading identifiers through parameters:
//
//	ctx = taskctx.With(ctx, taskctx.RequestContext{RequestID: "req-42"})
//	...
//	id := taskctx.RequestID(ctx) // "req-42"
//
// Two concurrent logical requests never observe each other's identifiers
// because each owns its own context chain.
package taskctx
