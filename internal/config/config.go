// Package config holds the run configuration of the census ETL command.
//
// Values are resolved in three layers: DefaultConfig, an optional YAML file
// (LoadFile), and environment variables (ApplyEnv). The defaults reproduce
// the behavior of running the command from the repository root with no
// configuration at all.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"censo-df/internal/domain/entity"
)

// DefaultSIDRAURL queries table 4714 (Censo 2022 resident population),
// variable 93, territorial level 10 (subdistricts) within municipality
// 5300108 (Brasília), latest period.
const DefaultSIDRAURL = "https://apisidra.ibge.gov.br/values/t/4714/n10/in%205300108/v/93/p/last%201"

// DefaultOutputFile is the CSV file name written under the data directory.
const DefaultOutputFile = "dados_sociais_por_setor.csv"

// Config is the complete configuration of one ETL run.
type Config struct {
	// BaseDir is the repository root. The CSV lands in
	// BaseDir/src/assets/data.
	// Default: "."
	BaseDir string `yaml:"base_dir"`

	// OutputFile is the CSV file name (no directories).
	// Default: "dados_sociais_por_setor.csv"
	OutputFile string `yaml:"output_file"`

	// SIDRA configures the remote population query.
	SIDRA SIDRAConfig `yaml:"sidra"`

	// DatabaseURL enables the Postgres sink when non-empty.
	DatabaseURL string `yaml:"database_url"`

	// MetricsTextfile, when set, receives the run metrics in Prometheus
	// text exposition format (node_exporter textfile collector).
	MetricsTextfile string `yaml:"metrics_textfile"`

	// Log configures the structured logger.
	Log LogConfig `yaml:"log"`
}

// SIDRAConfig configures the IBGE SIDRA client.
type SIDRAConfig struct {
	// URL of the values endpoint. Default: DefaultSIDRAURL
	URL string `yaml:"url"`

	// Timeout bounds the whole HTTP exchange. Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxAttempts is the number of attempts. Default: 1 (no retry)
	MaxAttempts int `yaml:"max_attempts"`

	// RetryDelay is the wait before the first retry; later retries back off
	// exponentially. Default: 2s
	RetryDelay time.Duration `yaml:"retry_delay"`

	// MaxBodySize caps the response body in bytes. Default: 10MB
	MaxBodySize int64 `yaml:"max_body_size"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is one of debug, info, warn (or warning), error. Case is
	// ignored. Default: info
	Level string `yaml:"level"`

	// Format is text or json. Case is ignored. Default: text
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		BaseDir:    ".",
		OutputFile: DefaultOutputFile,
		SIDRA: SIDRAConfig{
			URL:         DefaultSIDRAURL,
			Timeout:     30 * time.Second,
			MaxAttempts: 1,
			RetryDelay:  2 * time.Second,
			MaxBodySize: 10 * 1024 * 1024, // 10MB
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// OutputDir returns the directory the CSV is written to.
func (c *Config) OutputDir() string {
	return filepath.Join(c.BaseDir, "src", "assets", "data")
}

// OutputPath returns the full path of the CSV file.
func (c *Config) OutputPath() string {
	return filepath.Join(c.OutputDir(), c.OutputFile)
}

// Validate checks every field and reports all problems at once.
//
// Validation rules:
//   - BaseDir: non-empty
//   - OutputFile: bare file name ending in .csv
//   - SIDRA.URL: http(s) URL with a host
//   - SIDRA.Timeout: 0 < t <= 5m
//   - SIDRA.MaxAttempts: 1-5
//   - SIDRA.RetryDelay: 0 < d <= 1m
//   - SIDRA.MaxBodySize: 1KB-100MB
//   - Log.Level: debug, info, warn, warning or error
//   - Log.Format: text or json
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.BaseDir) == "" {
		errs = append(errs, errors.New("base dir must not be empty"))
	}

	if c.OutputFile == "" || filepath.Base(c.OutputFile) != c.OutputFile {
		errs = append(errs, fmt.Errorf("output file must be a bare file name, got %q", c.OutputFile))
	} else if !strings.EqualFold(filepath.Ext(c.OutputFile), ".csv") {
		errs = append(errs, fmt.Errorf("output file must have a .csv extension, got %q", c.OutputFile))
	}

	if err := entity.ValidateURL(c.SIDRA.URL); err != nil {
		errs = append(errs, fmt.Errorf("sidra url: %w", err))
	}

	if c.SIDRA.Timeout <= 0 || c.SIDRA.Timeout > 5*time.Minute {
		errs = append(errs, fmt.Errorf("sidra timeout must be between 0 and 5m, got %v", c.SIDRA.Timeout))
	}

	if c.SIDRA.MaxAttempts < 1 || c.SIDRA.MaxAttempts > 5 {
		errs = append(errs, fmt.Errorf("sidra max attempts must be between 1 and 5, got %d", c.SIDRA.MaxAttempts))
	}

	if c.SIDRA.RetryDelay <= 0 || c.SIDRA.RetryDelay > time.Minute {
		errs = append(errs, fmt.Errorf("sidra retry delay must be between 0 and 1m, got %v", c.SIDRA.RetryDelay))
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.SIDRA.MaxBodySize < minBodySize || c.SIDRA.MaxBodySize > maxBodySize {
		errs = append(errs, fmt.Errorf("sidra max body size must be between %d and %d bytes, got %d",
			minBodySize, maxBodySize, c.SIDRA.MaxBodySize))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log level must be debug, info, warn or error, got %q", c.Log.Level))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Load resolves the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment variables. The result is
// normalized and validated.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Normalize lowercases and trims the log settings so that LOG_LEVEL=INFO
// and LOG_FORMAT=" JSON " are accepted.
func (c *Config) Normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// LoadConfigFromEnv is Load without a configuration file.
func LoadConfigFromEnv() (Config, error) {
	return Load("")
}
