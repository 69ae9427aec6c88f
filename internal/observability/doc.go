// Package observability groups the logging, metrics and tracing helpers of
// the census ETL command.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus run metrics with text file export
//   - tracing: OpenTelemetry spans around each pipeline step
package observability
