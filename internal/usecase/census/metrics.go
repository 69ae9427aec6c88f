package census

import "time"

// MetricsRecorder receives run measurements.
type MetricsRecorder interface {
	RecordFetch(result string, rows int)
	ObserveStep(step string, d time.Duration)
	RecordRowsWritten(rows int)
}

// noopMetrics is used when no recorder is configured.
type noopMetrics struct{}

func (noopMetrics) RecordFetch(string, int) {}

func (noopMetrics) ObserveStep(string, time.Duration) {}

func (noopMetrics) RecordRowsWritten(int) {}
