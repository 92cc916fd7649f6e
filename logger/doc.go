// Package logger wraps zerolog with request-aware structured logging.
//
// A logger enriched from a context carries the request and correlation
// identifiers of the logical request it serves:
//
//	logger.WithContext(ctx).Info("backend call failed", logger.Fields(
//	    "operation", "getTask",
//	    "status", 500,
//	))
package logger
