// Package backend is the raw REST client for the task-management API.
//
// It performs the actual network I/O: one method per remote operation
// (tasks, projects, sprints, action items, health), each returning a
// decoded result or a typed *Error classified from the HTTP status.
// It carries no resilience logic of its own; the resilient package
// wraps it with circuit breaking, fallback caching and telemetry.
package backend
