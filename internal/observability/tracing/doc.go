// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created through the global tracer provider. Without an SDK
// provider installed the spans are no-ops, so the command pays nothing
// unless a provider is configured.
//
// Example usage:
//
//	import "censo-df/internal/observability/tracing"
//
//	func writeDataset(ctx context.Context) error {
//	    ctx, span := tracing.StartSpan(ctx, "census.write")
//	    defer span.End()
//	    // ... write the file ...
//	}
package tracing
