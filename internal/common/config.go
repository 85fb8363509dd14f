package common

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Extraction  ExtractionConfig `toml:"extraction"`
	OCR         OCRConfig        `toml:"ocr"`
	Cache       CacheConfig      `toml:"cache"`
	Quota       QuotaConfig      `toml:"quota"`
	Logging     LoggingConfig    `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
	Host string `toml:"host"`
}

// ExtractionConfig holds the size limit and the geometric thresholds used
// by the layout reconstructor and the readability classifier. These are
// configuration rather than constants so outputs stay reproducible across a
// whole document and so tests can probe boundary behavior precisely.
type ExtractionConfig struct {
	MaxFileSizeMB        int64   `toml:"max_file_size_mb" validate:"gt=0"`
	LineHeightThreshold  float64 `toml:"line_height_threshold" validate:"gt=0"`  // same-line vertical tolerance, page units
	WordSpacingThreshold float64 `toml:"word_spacing_threshold" validate:"gt=0"` // horizontal gap that implies a word break
	ReadableRatio        float64 `toml:"readable_ratio" validate:"gt=0,lte=1"`   // printable-char ratio at or above which a buffer counts as text
	BatchConcurrency     int     `toml:"batch_concurrency" validate:"gte=0"`     // 0 = NumCPU
	StrictFormats        bool    `toml:"strict_formats"`                         // reject unknown formats instead of treating them as text
}

// OCRConfig throttles the external OCR collaborator separately from the
// other pipelines since OCR is markedly more expensive.
type OCRConfig struct {
	Concurrency       int     `toml:"concurrency" validate:"gte=1"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gt=0"`
}

// CacheConfig represents the Badger-backed response cache configuration
type CacheConfig struct {
	Enabled             bool   `toml:"enabled"`
	Path                string `toml:"path"`
	TTL                 string `toml:"ttl"`                  // e.g. "1h"
	ResetOnStartup      bool   `toml:"reset_on_startup"`     // delete database on startup for clean test runs
	MaintenanceSchedule string `toml:"maintenance_schedule"` // cron schedule for expiry sweep + value-log GC
}

// QuotaConfig configures the sliding-window request quota tracker.
type QuotaConfig struct {
	Enabled           bool   `toml:"enabled"`
	RequestsPerWindow int    `toml:"requests_per_window" validate:"gte=1"`
	Window            string `toml:"window"` // e.g. "1m"
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // time format for log lines
}

// TTLDuration parses the cache TTL, falling back to one hour.
func (c *CacheConfig) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// WindowDuration parses the quota window, falling back to one minute.
func (c *QuotaConfig) WindowDuration() time.Duration {
	d, err := time.ParseDuration(c.Window)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// MaxFileSizeBytes returns the configured size limit in bytes.
func (c *ExtractionConfig) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// DefaultConfig returns the baseline configuration before file and
// environment overrides are applied.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Extraction: ExtractionConfig{
			MaxFileSizeMB:        50,
			LineHeightThreshold:  2.0,
			WordSpacingThreshold: 10.0,
			ReadableRatio:        0.7,
			BatchConcurrency:     runtime.NumCPU(),
			StrictFormats:        false,
		},
		OCR: OCRConfig{
			Concurrency:       2,
			RequestsPerSecond: 1,
		},
		Cache: CacheConfig{
			Enabled:             true,
			Path:                "./data/cache",
			TTL:                 "1h",
			ResetOnStartup:      false,
			MaintenanceSchedule: "@every 10m",
		},
		Quota: QuotaConfig{
			Enabled:           true,
			RequestsPerWindow: 60,
			Window:            "1m",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
	}
}

// LoadFromFiles loads configuration with precedence:
// defaults -> file1 -> file2 -> ... -> environment variables.
// Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies LECTIO_* environment variable overrides
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("LECTIO_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("LECTIO_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("LECTIO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("LECTIO_MAX_FILE_SIZE_MB"); v != "" {
		if mb, err := strconv.ParseInt(v, 10, 64); err == nil && mb > 0 {
			config.Extraction.MaxFileSizeMB = mb
		}
	}
	if v := os.Getenv("LECTIO_CACHE_PATH"); v != "" {
		config.Cache.Path = v
	}
	if v := os.Getenv("LECTIO_ENVIRONMENT"); v != "" {
		config.Environment = v
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
