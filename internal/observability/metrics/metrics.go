package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "censo"

// RunMetrics holds the Prometheus collectors for a pipeline run.
//
// Metrics:
//   - censo_remote_fetch_total: remote fetch outcomes by result (success, network, status, decode, empty, circuit_open)
//   - censo_remote_rows: subdistrict rows returned by the last successful fetch
//   - censo_step_duration_seconds: duration of each pipeline step
//   - censo_rows_written: rows written to the CSV file
//   - censo_runs_total: runs by status (success, failure)
//   - censo_run_duration_seconds: duration of the whole run
//   - censo_last_success_timestamp_seconds: Unix timestamp of the last successful run
type RunMetrics struct {
	registry *prometheus.Registry

	// RemoteFetchTotal counts remote fetch attempts by result.
	// Type: Counter
	// Labels: result
	RemoteFetchTotal *prometheus.CounterVec

	// RemoteRows records the subdistrict row count of the last successful fetch.
	// Type: Gauge
	RemoteRows prometheus.Gauge

	// StepDurationSeconds measures each pipeline step.
	// Type: Histogram
	// Labels: step (fetch, build, write, store, profile)
	StepDurationSeconds *prometheus.HistogramVec

	// RowsWritten records the number of rows in the written dataset.
	// Type: Gauge
	RowsWritten prometheus.Gauge

	// RunsTotal counts runs by status.
	// Type: Counter
	// Labels: status (success, failure)
	RunsTotal *prometheus.CounterVec

	// RunDurationSeconds records the duration of the whole run.
	// Type: Gauge
	RunDurationSeconds prometheus.Gauge

	// LastSuccessTimestamp records the Unix timestamp of the last successful run.
	// Type: Gauge
	LastSuccessTimestamp prometheus.Gauge
}

// NewRunMetrics creates the run collectors registered on a fresh registry.
func NewRunMetrics() *RunMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &RunMetrics{
		registry: reg,
		RemoteFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_fetch_total",
				Help:      "Total number of remote statistics API fetches by result",
			},
			[]string{"result"},
		),
		RemoteRows: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "remote_rows",
				Help:      "Subdistrict rows returned by the last successful remote fetch",
			},
		),
		StepDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of each pipeline step in seconds",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"step"},
		),
		RowsWritten: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rows_written",
				Help:      "Number of rows written to the output dataset",
			},
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of pipeline runs by status",
			},
			[]string{"status"},
		),
		RunDurationSeconds: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of the last pipeline run in seconds",
			},
		),
		LastSuccessTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix timestamp of the last successful pipeline run",
			},
		),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFetch records one remote fetch outcome.
// rows is only meaningful when result is "success".
func (m *RunMetrics) RecordFetch(result string, rows int) {
	m.RemoteFetchTotal.WithLabelValues(result).Inc()
	if result == "success" {
		m.RemoteRows.Set(float64(rows))
	}
}

// ObserveStep records the duration of a pipeline step.
func (m *RunMetrics) ObserveStep(step string, d time.Duration) {
	m.StepDurationSeconds.WithLabelValues(step).Observe(d.Seconds())
}

// RecordRowsWritten records the size of the written dataset.
func (m *RunMetrics) RecordRowsWritten(rows int) {
	m.RowsWritten.Set(float64(rows))
}

// RecordRun records the final status and duration of a run.
func (m *RunMetrics) RecordRun(status string, d time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Set(d.Seconds())
	if status == "success" {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// WriteTextfile writes every collected metric to path in the Prometheus
// text format. The file is written atomically.
func (m *RunMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
