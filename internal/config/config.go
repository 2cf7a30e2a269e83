// =============================================================================
// OpenHoldings - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values come from three
// layers, later layers winning:
//   1. Built-in defaults
//   2. The YAML config file (config.yaml by default; a missing file is fine)
//   3. HOLDINGS_* environment variables, optionally loaded from a .env file
//
// EXAMPLE config.yaml:
//
//   staging_dir: ./staging
//   log_level: info
//   log_file: ./logs/holdings.log
//   http_timeout: 30s
//   requests_per_second: 2
//   ishares_funds_file: ./data/ishares_funds.csv
//   output_format: json
//   providers:
//     vaneck:
//       url_template: https://www.vaneck.com/etf/income/{ticker_lower}/holdings/download/xlsx/
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "config.yaml"

// EnvPrefix starts every environment override.
const EnvPrefix = "HOLDINGS_"

// Output formats.
const (
	FormatXML  = "xml"
	FormatJSON = "json"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// StagingDir receives downloaded holdings documents while they are read.
	// Default: the OS temp directory
	StagingDir string `yaml:"staging_dir"`

	// LogFile sends logs to a rotating file instead of stderr.
	LogFile string `yaml:"log_file"`

	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "json" or "text".
	// Default: "json"
	LogFormat string `yaml:"log_format"`

	// LogMaxAgeDays is how long rotated log files are kept. 0 keeps them.
	LogMaxAgeDays int `yaml:"log_max_age_days"`

	// UserAgent is sent with each download.
	// Default: "Mozilla/5.0"
	UserAgent string `yaml:"user_agent"`

	// HTTPTimeout bounds one download.
	// Default: 30s
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// RequestsPerSecond paces downloads. 0 disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// ISharesFundsFile is the ticker to detail page URL table.
	// Default: "./data/ishares_funds.csv"
	ISharesFundsFile string `yaml:"ishares_funds_file"`

	// Providers holds per-provider overrides keyed by registry name.
	Providers map[string]ProviderConfig `yaml:"providers"`

	// OutputFormat is "xml" or "json".
	// Default: "json"
	OutputFormat string `yaml:"output_format"`
}

// ProviderConfig overrides one provider's defaults.
type ProviderConfig struct {
	// URLTemplate replaces the provider's download URL. "{ticker}" and
	// "{ticker_lower}" are filled in; iShares templates also take "{url}".
	URLTemplate string `yaml:"url_template"`
}

// URLTemplate returns the configured template for a provider, or "".
func (c *Config) URLTemplate(provider string) string {
	return c.Providers[strings.ToLower(provider)].URLTemplate
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration file at path, then applies defaults and
// environment overrides.
//
// PARAMETERS:
//   - path: The YAML config file. If it does not exist, defaults are used.
//
// RETURNS:
//   - The loaded configuration.
//   - An error if the file or an override cannot be parsed, or the result
//     is invalid.
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}
	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// LoadEnv loads KEY=value pairs from dotenv files into the process
// environment without overwriting variables that are already set. Missing
// files are skipped.
func LoadEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.StagingDir == "" {
		config.StagingDir = os.TempDir()
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "json"
	}
	if config.UserAgent == "" {
		config.UserAgent = "Mozilla/5.0"
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 30 * time.Second
	}
	if config.ISharesFundsFile == "" {
		config.ISharesFundsFile = "./data/ishares_funds.csv"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = FormatJSON
	}
}

// applyEnvOverrides replaces file values with HOLDINGS_* variables.
func applyEnvOverrides(config *Config) error {
	strs := map[string]*string{
		"STAGING_DIR":        &config.StagingDir,
		"LOG_FILE":           &config.LogFile,
		"LOG_LEVEL":          &config.LogLevel,
		"LOG_FORMAT":         &config.LogFormat,
		"USER_AGENT":         &config.UserAgent,
		"ISHARES_FUNDS_FILE": &config.ISharesFundsFile,
		"OUTPUT_FORMAT":      &config.OutputFormat,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv(EnvPrefix + "HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sHTTP_TIMEOUT: %w", EnvPrefix, err)
		}
		config.HTTPTimeout = d
	}
	if v := os.Getenv(EnvPrefix + "REQUESTS_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sREQUESTS_PER_SECOND: %w", EnvPrefix, err)
		}
		config.RequestsPerSecond = f
	}
	return nil
}

// validate checks values that defaults cannot repair.
func validate(config *Config) error {
	config.OutputFormat = strings.ToLower(config.OutputFormat)
	if config.OutputFormat != FormatXML && config.OutputFormat != FormatJSON {
		return fmt.Errorf("output_format must be %q or %q, got %q", FormatXML, FormatJSON, config.OutputFormat)
	}
	if config.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative")
	}
	if config.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	if config.LogMaxAgeDays < 0 {
		return fmt.Errorf("log_max_age_days must not be negative")
	}
	return nil
}
