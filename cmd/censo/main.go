// Package main provides the census ETL command.
// Usage: censo [-config path/to/config.yaml]
//
// It builds the Federal District social indicators dataset, writes it to
// <base>/src/assets/data/dados_sociais_por_setor.csv and prints a summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"censo-df/internal/config"
	"censo-df/internal/dataset"
	pgRepo "censo-df/internal/infra/adapter/persistence/postgres"
	"censo-df/internal/infra/csvexport"
	"censo-df/internal/infra/db"
	"censo-df/internal/infra/sidra"
	"censo-df/internal/observability/logging"
	"censo-df/internal/observability/metrics"
	"censo-df/internal/repository"
	"censo-df/internal/usecase/census"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	flag.Parse()

	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	runMetrics := metrics.NewRunMetrics()

	printBanner(os.Stdout)

	regionRepo, closeDB, err := setupRegionRepo(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to initialise database", slog.Any("error", err))
		printFailure(os.Stdout, err)
		return 1
	}
	defer closeDB()

	svc := census.NewService(
		sidra.NewClient(sidra.Config{
			URL:         cfg.SIDRA.URL,
			Timeout:     cfg.SIDRA.Timeout,
			MaxAttempts: cfg.SIDRA.MaxAttempts,
			RetryDelay:  cfg.SIDRA.RetryDelay,
			MaxBodySize: cfg.SIDRA.MaxBodySize,
		}),
		csvexport.NewWriter(),
		regionRepo,
		runMetrics,
		dataset.DemoRegions(),
		census.Output{Dir: cfg.OutputDir(), File: cfg.OutputFile},
	)

	start := time.Now()
	report, runErr := svc.Run(ctx)

	status := "success"
	if runErr != nil {
		status = "failure"
	}
	runMetrics.RecordRun(status, time.Since(start))
	writeMetrics(logger, cfg.MetricsTextfile, runMetrics)

	if runErr != nil {
		logger.Error("census run failed", slog.Any("error", runErr))
		printFailure(os.Stdout, runErr)
		return 1
	}

	logger.Info("census run completed",
		slog.Int("rows", len(report.Rows)),
		slog.Bool("remote_ok", report.RemoteOK()),
		slog.Duration("duration", report.Duration))

	printReport(os.Stdout, report)
	printInstructions(os.Stdout)
	return 0
}

// loadDotEnv loads variables from path without overriding the environment.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// initLogger builds the process logger from configuration. Logs go to
// stderr so the summary on stdout stays readable.
func initLogger(cfg config.Config) *slog.Logger {
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	logger = logging.WithRunID(logger, logging.NewRunID())
	slog.SetDefault(logger)
	return logger
}

// setupRegionRepo opens the database when CENSO_DATABASE_URL is configured and
// migrates the schema. Without it the returned repository is nil.
func setupRegionRepo(ctx context.Context, logger *slog.Logger, cfg config.Config) (repository.RegionRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Debug("database load disabled")
		return nil, func() {}, nil
	}

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}

	if err := db.MigrateUp(ctx, database); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return pgRepo.NewRegionRepo(database), closeDB, nil
}

// writeMetrics exports the run metrics when a text file path is configured.
// Export failures are logged and never change the exit code.
func writeMetrics(logger *slog.Logger, path string, m *metrics.RunMetrics) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		logger.Warn("failed to write metrics file",
			slog.String("path", path),
			slog.Any("error", err))
		return
	}
	logger.Debug("metrics file written", slog.String("path", path))
}
