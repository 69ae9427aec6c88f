// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Run ID propagation
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	import "censo-df/internal/observability/logging"
//
//	func main() {
//	    logger := logging.New(os.Stdout, "info", "text")
//	    logger = logging.WithRunID(logger, logging.NewRunID())
//	    ctx := logging.WithLogger(context.Background(), logger)
//	    run(ctx)
//	}
//
//	func run(ctx context.Context) {
//	    logging.FromContext(ctx).Info("pipeline started")
//	}
package logging
