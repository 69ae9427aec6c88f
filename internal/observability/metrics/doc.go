// Package metrics provides Prometheus metrics for one census pipeline run.
//
// The command is short lived, so metrics live on a dedicated registry
// instead of the default one and are exported once at the end of the run
// in the text exposition format (for node_exporter's textfile collector).
//
// Example usage:
//
//	import "censo-df/internal/observability/metrics"
//
//	func main() {
//	    m := metrics.NewRunMetrics()
//	    start := time.Now()
//	    // ... run the pipeline ...
//	    m.RecordRun("success", time.Since(start))
//	    _ = m.WriteTextfile("/var/lib/node_exporter/censo.prom")
//	}
package metrics
