// Package config provides configuration management for the metrics pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources                = errors.New("at least one source is required: set sources.urls_file or add sources.pages entries")
	ErrSourceMissingURLOrFile   = errors.New("either url or file is required")
	ErrNoEnabledSources         = errors.New("at least one page source must be enabled")
	ErrInvalidMaxAttempts       = errors.New("fetch.retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("fetch.retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("fetch.retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("fetch.retry.timeout_sec must be at least 1")
	ErrInvalidWorkers           = errors.New("fetch.workers must be at least 1")
	ErrMissingOutputDir         = errors.New("output.dir is required")
	ErrInvalidMinMetrics        = errors.New("quality.min_metrics must be non-negative")
	ErrInvalidSuccessTarget     = errors.New("quality.success_rate_target must be between 0 and 100")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// PipelineConfig contains the pipeline-specific settings.
type PipelineConfig struct {
	Sources SourcesConfig `yaml:"sources"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Quality QualityConfig `yaml:"quality"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourcesConfig declares where country pages come from.
type SourcesConfig struct {
	URLsFile string         `yaml:"urls_file"`
	Pages    []SourceConfig `yaml:"pages"`
}

// SourceConfig represents one country page source.
type SourceConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	File    string `yaml:"file"`
	Enabled bool   `yaml:"enabled"`
}

// IsLocalFile returns true if this source reads a local file.
func (s *SourceConfig) IsLocalFile() bool {
	return s.File != ""
}

// Ref returns the file path if local, or URL if remote. This is also the
// source reference the extractor derives a country slug from.
func (s *SourceConfig) Ref() string {
	if s.IsLocalFile() {
		return s.File
	}

	return s.URL
}

// FetchConfig controls the HTTP fetch phase.
type FetchConfig struct {
	Retry     RetryPolicy `yaml:"retry"`
	DelayMs   int         `yaml:"delay_ms"`
	Workers   int         `yaml:"workers"`
	MaxBodyKb int         `yaml:"max_body_kb"`
}

// RetryPolicy defines retry behavior for transient fetch failures.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// QualityConfig defines the dataset quality policy.
type QualityConfig struct {
	// MinMetrics is the minimum non-identity metric count for a record to
	// count as a successful scrape.
	MinMetrics int `yaml:"min_metrics"`
	// SuccessRateTarget is the scrape success percentage the run is
	// measured against in the quality report.
	SuccessRateTarget float64 `yaml:"success_rate_target"`
}

// OutputConfig defines where each pipeline artifact is written.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	RawCSV     string `yaml:"raw_csv"`
	CleanCSV   string `yaml:"clean_csv"`
	DerivedCSV string `yaml:"derived_csv"`
	SQLite     string `yaml:"sqlite"`
	Report     string `yaml:"report"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level"`
	ShowProgress bool   `yaml:"show_progress"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Sources: SourcesConfig{
				URLsFile: "data/urls.txt",
			},
			Fetch: FetchConfig{
				Retry:     DefaultRetryPolicy(),
				DelayMs:   1000,
				Workers:   4,
				MaxBodyKb: 2048,
			},
			Quality: QualityConfig{
				MinMetrics:        5,
				SuccessRateTarget: 95,
			},
			Output: OutputConfig{
				Dir:        "data",
				RawCSV:     "raw_data.csv",
				CleanCSV:   "clean_data.csv",
				DerivedCSV: "kpi_data.csv",
				SQLite:     "gdm.sqlite",
				Report:     "quality_report.md",
			},
			Logging: LoggingConfig{
				Level:        "info",
				ShowProgress: true,
			},
		},
	}
}

// DefaultRetryPolicy returns the retry policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		InitialDelayMs:    500,
		MaxDelayMs:        30000,
		BackoffMultiplier: 2.0,
		TimeoutSec:        30,
	}
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	p := &c.Pipeline

	if p.Sources.URLsFile == "" && len(p.Sources.Pages) == 0 {
		return ErrNoSources
	}

	enabledCount := 0

	for i, src := range p.Sources.Pages {
		if src.URL == "" && src.File == "" {
			return fmt.Errorf("%w: sources.pages[%d]", ErrSourceMissingURLOrFile, i)
		}

		if src.Enabled {
			enabledCount++
		}
	}

	if p.Sources.URLsFile == "" && enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if p.Fetch.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if p.Fetch.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if p.Fetch.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if p.Fetch.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if p.Fetch.Workers < 1 {
		return ErrInvalidWorkers
	}

	if p.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	if p.Quality.MinMetrics < 0 {
		return ErrInvalidMinMetrics
	}

	if p.Quality.SuccessRateTarget < 0 || p.Quality.SuccessRateTarget > 100 {
		return ErrInvalidSuccessTarget
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[p.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the per-request timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// GetDelay returns the polite inter-request delay.
func (f *FetchConfig) GetDelay() time.Duration {
	return time.Duration(f.DelayMs) * time.Millisecond
}

// OutputPath resolves an artifact file name against the output directory.
func (o *OutputConfig) OutputPath(name string) string {
	return filepath.Join(o.Dir, name)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{URLsFile: %s, Pages: %d, Workers: %d, Output: %s}",
		c.Pipeline.Sources.URLsFile,
		len(c.Pipeline.Sources.Pages),
		c.Pipeline.Fetch.Workers,
		c.Pipeline.Output.Dir,
	)
}
