package census

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"censo-df/internal/analysis"
	"censo-df/internal/domain/entity"
	"censo-df/internal/infra/sidra"
	"censo-df/internal/observability/logging"
	"censo-df/internal/observability/tracing"
	"censo-df/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PopulationFetcher fetches subdistrict population from the statistics API.
type PopulationFetcher interface {
	FetchPopulation(ctx context.Context) ([]entity.SubdistrictRecord, error)
}

// DatasetWriter persists the dataset as a file at path, replacing any
// previous file.
type DatasetWriter interface {
	Write(path string, rows []entity.RegionRecord) error
}

// Output locates the written file.
type Output struct {
	Dir  string
	File string
}

// Path returns the full path of the output file.
func (o Output) Path() string {
	return filepath.Join(o.Dir, o.File)
}

// Service runs the census pipeline once per Run call.
type Service struct {
	Fetcher    PopulationFetcher
	Writer     DatasetWriter
	RegionRepo repository.RegionRepository // optional, nil disables the database load
	Metrics    MetricsRecorder             // optional
	Seed       []entity.RegionRecord
	Output     Output
}

// NewService creates a Service. regionRepo and recorder may be nil.
func NewService(
	fetcher PopulationFetcher,
	writer DatasetWriter,
	regionRepo repository.RegionRepository,
	recorder MetricsRecorder,
	seed []entity.RegionRecord,
	output Output,
) *Service {
	return &Service{
		Fetcher:    fetcher,
		Writer:     writer,
		RegionRepo: regionRepo,
		Metrics:    recorder,
		Seed:       seed,
		Output:     output,
	}
}

// RunReport describes one completed run.
type RunReport struct {
	OutputPath string
	Rows       []entity.RegionRecord
	Profile    *analysis.Profile

	// RemoteRows is the number of subdistrict rows returned by the
	// statistics API. They are not merged into Rows.
	RemoteRows int
	RemoteErr  error

	Stored   bool
	Duration time.Duration
}

// RemoteOK reports whether the remote fetch succeeded.
func (r *RunReport) RemoteOK() bool {
	return r.RemoteErr == nil
}

// Run executes the pipeline: prepare the output directory, query the
// statistics API, build and validate the dataset, write it, optionally load
// it into the database and profile it.
//
// A failed remote fetch is recorded in the report and does not fail the run.
// Every other failure is returned wrapped in one of the package sentinels.
func (s *Service) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)
	recorder := s.metrics()

	ctx, span := tracing.StartSpan(ctx, "census.run")
	defer span.End()

	report := &RunReport{OutputPath: s.Output.Path()}

	if err := os.MkdirAll(s.Output.Dir, 0o755); err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrOutputDir, s.Output.Dir, err)
		tracing.RecordError(span, err)
		return nil, err
	}

	s.fetchRemote(ctx, logger, recorder, report)

	stepStart := time.Now()
	rows := BuildDataset(s.Seed)
	if err := ValidateDataset(rows); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	recorder.ObserveStep("build", time.Since(stepStart))
	report.Rows = rows

	if err := s.write(ctx, recorder, report); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	logger.Info("dataset written",
		slog.String("path", report.OutputPath),
		slog.Int("rows", len(rows)))

	if s.RegionRepo != nil {
		if err := s.store(ctx, recorder, rows); err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
		report.Stored = true
		logger.Info("dataset stored", slog.Int("rows", len(rows)))
	}

	stepStart = time.Now()
	profile, err := analysis.Summarize(rows)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrProfileDataset, err)
		tracing.RecordError(span, err)
		return nil, err
	}
	recorder.ObserveStep("profile", time.Since(stepStart))
	report.Profile = profile

	report.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("rows", len(rows)),
		attribute.Bool("remote_ok", report.RemoteOK()),
		attribute.Bool("stored", report.Stored),
	)
	return report, nil
}

// fetchRemote queries the statistics API and records the outcome.
// The records themselves are discarded.
func (s *Service) fetchRemote(ctx context.Context, logger *slog.Logger, recorder MetricsRecorder, report *RunReport) {
	if s.Fetcher == nil {
		return
	}
	ctx, span := tracing.StartSpan(ctx, "census.fetch")
	defer span.End()

	start := time.Now()
	records, err := s.Fetcher.FetchPopulation(ctx)
	recorder.ObserveStep("fetch", time.Since(start))

	if err != nil {
		kind := sidra.KindOf(err)
		report.RemoteErr = err
		recorder.RecordFetch(kind.String(), 0)
		tracing.RecordError(span, err)
		logger.Warn("statistics API unavailable, continuing with demonstration data",
			slog.String("kind", kind.String()),
			slog.Any("error", err))
		return
	}

	report.RemoteRows = len(records)
	recorder.RecordFetch("success", len(records))
	span.SetAttributes(attribute.Int("rows", len(records)))
	logger.Info("statistics API returned subdistrict population",
		slog.Int("rows", len(records)))
}

func (s *Service) write(ctx context.Context, recorder MetricsRecorder, report *RunReport) error {
	_, span := tracing.StartSpan(ctx, "census.write")
	defer span.End()

	start := time.Now()
	if err := s.Writer.Write(report.OutputPath, report.Rows); err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrWriteDataset, report.OutputPath, err)
		tracing.RecordError(span, err)
		return err
	}
	recorder.ObserveStep("write", time.Since(start))
	recorder.RecordRowsWritten(len(report.Rows))
	span.SetAttributes(attribute.String("path", report.OutputPath))
	return nil
}

func (s *Service) store(ctx context.Context, recorder MetricsRecorder, rows []entity.RegionRecord) error {
	ctx, span := tracing.StartSpan(ctx, "census.store")
	defer span.End()

	start := time.Now()
	if err := s.RegionRepo.ReplaceAll(ctx, rows); err != nil {
		err = fmt.Errorf("%w: %w", ErrStoreDataset, err)
		tracing.RecordError(span, err)
		return err
	}

	// Read the table back so a load that committed fewer rows fails the run.
	stored, err := s.RegionRepo.List(ctx)
	if err != nil {
		err = fmt.Errorf("%w: read back: %w", ErrStoreDataset, err)
		tracing.RecordError(span, err)
		return err
	}
	if len(stored) != len(rows) {
		err = fmt.Errorf("%w: stored %d rows, want %d", ErrStoreDataset, len(stored), len(rows))
		tracing.RecordError(span, err)
		return err
	}
	span.SetAttributes(attribute.Int("stored_rows", len(stored)))
	recorder.ObserveStep("store", time.Since(start))
	return nil
}

func (s *Service) metrics() MetricsRecorder {
	if s.Metrics == nil {
		return noopMetrics{}
	}
	return s.Metrics
}
