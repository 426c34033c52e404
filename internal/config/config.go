// Package config loads run configuration from defaults, an optional YAML file
// and RFM_-prefixed environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "RFM"

// Config represents the complete run configuration
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Storage  StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Metrics  MetricsConfig  `yaml:"metrics" envconfig:"METRICS"`
}

// InputConfig locates the raw extract
type InputConfig struct {
	// .csv, .csv.sz or .xlsx
	Path string `yaml:"path" split_words:"true" validate:"required"`
	// Worksheet to read from an .xlsx workbook. Empty means the first sheet.
	Sheet string `yaml:"sheet" split_words:"true"`
}

// OutputConfig controls how results are rendered
type OutputConfig struct {
	Dir    string `yaml:"dir" split_words:"true" validate:"required"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=csv xlsx"`
	// Snappy-compress CSV outputs. Ignored for xlsx.
	Compress bool `yaml:"compress" split_words:"true"`
}

// PipelineConfig tunes the analytics run
type PipelineConfig struct {
	Workers     int  `yaml:"workers" split_words:"true" validate:"min=1,max=256"`
	KeepReturns bool `yaml:"keep_returns" split_words:"true"`
	TopN        int  `yaml:"top_n" split_words:"true" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=json text"`
}

// StorageConfig selects where a finished run is published
type StorageConfig struct {
	Backend        string `yaml:"backend" split_words:"true" validate:"oneof=none local s3"`
	Path           string `yaml:"path" split_words:"true" validate:"required_if=Backend local"`
	Bucket         string `yaml:"bucket" split_words:"true" validate:"required_if=Backend s3"`
	Region         string `yaml:"region" split_words:"true"`
	Endpoint       string `yaml:"endpoint" split_words:"true"`
	ForcePathStyle bool   `yaml:"force_path_style" split_words:"true"`
	Prefix         string `yaml:"prefix" split_words:"true"`
}

// MetricsConfig contains the Prometheus textfile location. Empty disables it.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path" split_words:"true"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    "out",
			Format: "csv",
		},
		Pipeline: PipelineConfig{
			Workers: 4,
			TopN:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Storage: StorageConfig{
			Backend: "none",
			Region:  "us-east-1",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), the environment and finally overrides, then validates it.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Variables that are not set leave the field untouched. Only prefixed
	// names such as RFM_OUTPUT_FORMAT are read.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file at path onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks every field constraint and reports all violations at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}
	problems := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		problems[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
}
