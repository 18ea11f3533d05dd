// Package telemetry groups the server's observability components.
//
// # Components
//
//   - logging: structured logging via log/slog with runtime level changes
//   - metrics: Prometheus metrics for completions, resets, and rejections
//
// Both are wired from TelemetryConfig. Metrics exposure is optional and
// off unless enabled in configuration; logging is always on.
package telemetry
