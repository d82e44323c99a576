// =============================================================================
// t4bulk - Configuration Module
// =============================================================================
//
// This module loads the run configuration (config.yaml) and manages the
// persisted CMS access token.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): API endpoint, batching and directory settings
//   2. Token File (.t4env): dotenv file holding T4_TOKEN
//
// The main config file is optional. When it does not exist every setting
// takes its default value.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultBaseURL        = "https://cms.seattleu.edu/terminalfour/rs"
	DefaultLanguage       = "en"
	DefaultMediaDir       = "./media"
	DefaultOutputDir      = "./output"
	DefaultBatchSize      = 20
	DefaultBatchDelay     = 2 * time.Second
	DefaultRequestTimeout = 60 * time.Second
	DefaultLogLevel       = "info"
	DefaultTokenFile      = ".t4env"
	DefaultOutputFormat   = "{type}_template_{timestamp}.xlsx"
	DefaultCSVDelimiter   = ","
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the run configuration.
type MainConfig struct {
	// =========================================================================
	// API SETTINGS
	// =========================================================================

	// BaseURL is the root of the CMS REST API.
	BaseURL string `yaml:"base_url"`

	// Language is the content language sent with create/modify calls.
	Language string `yaml:"language"`

	// RequestTimeout bounds every HTTP call to the CMS.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// TokenFile is the dotenv file the access token is read from and
	// persisted to.
	TokenFile string `yaml:"token_file"`

	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// MediaDir is where media element file names are resolved before upload.
	MediaDir string `yaml:"media_dir"`

	// OutputDir receives exported templates and error logs.
	OutputDir string `yaml:"output_dir"`

	// OutputFormat names exported template files.
	// Placeholders: {type}, {timestamp}, {uuid}.
	OutputFormat string `yaml:"output_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// BatchSize is how many rows are sent to the CMS concurrently.
	BatchSize int `yaml:"batch_size"`

	// BatchDelay is the pause between two batches.
	BatchDelay time.Duration `yaml:"batch_delay"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// CSVDelimiter is the field separator for .csv input.
	// Accepts a single character or "tab", "pipe", "semicolon".
	CSVDelimiter string `yaml:"csv_delimiter"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every setting at its default.
func Default() *MainConfig {
	cfg := &MainConfig{BatchDelay: DefaultBatchDelay}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// A missing file is not an error: the defaults are returned instead. A file
// that exists but cannot be parsed or fails validation is.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys missing from the file keep their defaults; an explicit
	// batch_delay of 0 disables the pause.
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration
// options. BatchDelay is not touched here because 0 is a valid setting.
func applyMainConfigDefaults(config *MainConfig) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Language == "" {
		config.Language = DefaultLanguage
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	if config.TokenFile == "" {
		config.TokenFile = DefaultTokenFile
	}
	if config.MediaDir == "" {
		config.MediaDir = DefaultMediaDir
	}
	if config.OutputDir == "" {
		config.OutputDir = DefaultOutputDir
	}
	if config.OutputFormat == "" {
		config.OutputFormat = DefaultOutputFormat
	}
	if config.BatchSize == 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}
	if config.CSVDelimiter == "" {
		config.CSVDelimiter = DefaultCSVDelimiter
	}
}

// Validate checks the configuration for values that cannot work.
func (c *MainConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not an absolute URL", c.BaseURL)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative, got %d", c.BatchSize)
	}
	if c.BatchDelay < 0 {
		return fmt.Errorf("batch_delay must not be negative, got %s", c.BatchDelay)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}
