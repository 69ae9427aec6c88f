package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ApplyEnv overrides cfg with the environment variables that are set.
// Unset or empty variables leave the current value untouched; values that
// cannot be parsed are reported as errors rather than silently ignored.
//
// Environment variables:
//   - CENSO_BASE_DIR: repository root
//   - CENSO_OUTPUT_FILE: CSV file name
//   - SIDRA_URL: values endpoint
//   - SIDRA_TIMEOUT: duration string, e.g. "30s"
//   - SIDRA_MAX_ATTEMPTS: integer
//   - SIDRA_RETRY_DELAY: duration string, e.g. "2s"
//   - SIDRA_MAX_BODY_SIZE: integer in bytes
//   - CENSO_DATABASE_URL: Postgres DSN enabling the database sink
//   - METRICS_TEXTFILE: path of the metrics text file
//   - LOG_LEVEL: debug, info, warn, error (any case)
//   - LOG_FORMAT: text, json (any case)
func ApplyEnv(cfg *Config) error {
	setString("CENSO_BASE_DIR", &cfg.BaseDir)
	setString("CENSO_OUTPUT_FILE", &cfg.OutputFile)
	setString("SIDRA_URL", &cfg.SIDRA.URL)
	setString("CENSO_DATABASE_URL", &cfg.DatabaseURL)
	setString("METRICS_TEXTFILE", &cfg.MetricsTextfile)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)

	if val := os.Getenv("SIDRA_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid SIDRA_TIMEOUT: %v (expected format: '30s', '1m')", err)
		}
		cfg.SIDRA.Timeout = parsed
	}

	if val := os.Getenv("SIDRA_MAX_ATTEMPTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid SIDRA_MAX_ATTEMPTS: %v", err)
		}
		cfg.SIDRA.MaxAttempts = parsed
	}

	if val := os.Getenv("SIDRA_RETRY_DELAY"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid SIDRA_RETRY_DELAY: %v (expected format: '2s', '500ms')", err)
		}
		cfg.SIDRA.RetryDelay = parsed
	}

	if val := os.Getenv("SIDRA_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SIDRA_MAX_BODY_SIZE: %v", err)
		}
		cfg.SIDRA.MaxBodySize = parsed
	}

	return nil
}

func setString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}
