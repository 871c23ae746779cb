package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the complete configuration for the medext application.
// It includes settings for all commands (extract, quality, batch, serve) and
// supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Extraction pipeline settings
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract" json:"extract"`

	// Gemini settings for the optional LLM pass
	Gemini GeminiConfig `mapstructure:"gemini" yaml:"gemini" json:"gemini"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Result cache configuration
	Cache CacheConfig `mapstructure:"cache" yaml:"cache" json:"cache"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// ExtractConfig contains extraction pipeline settings.
type ExtractConfig struct {
	// UseLLM enables the LLM-assisted extraction pass. Regex extraction
	// always runs; LLM failures fall back to it silently.
	UseLLM bool `mapstructure:"use_llm" yaml:"use_llm" json:"use_llm"`

	// PDFQualityThreshold is the minimum embedded-text quality score for a
	// PDF page to be used without OCR.
	PDFQualityThreshold float64 `mapstructure:"pdf_quality_threshold" yaml:"pdf_quality_threshold" json:"pdf_quality_threshold"`
}

// GeminiConfig contains Gemini API settings.
type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key" yaml:"api_key" json:"api_key"`
	Model      string `mapstructure:"model" yaml:"model" json:"model"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	RateLimit       int    `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// CacheConfig contains result cache settings.
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	TTLSec  int  `mapstructure:"ttl_sec" yaml:"ttl_sec" json:"ttl_sec"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	OutputDir       string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	ContinueOnError bool   `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Extract: ExtractConfig{
			UseLLM:              false,
			PDFQualityThreshold: 0.7,
		},
		Gemini: GeminiConfig{
			Model:      "gemini-2.0-flash",
			TimeoutSec: 30,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			RateLimit:       60,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTLSec:  900,
		},
		Batch: BatchConfig{
			Workers:         4,
			ContinueOnError: false,
		},
	}
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSec) * time.Second
}

// GeminiTimeout returns the Gemini request timeout as a duration.
func (c *Config) GeminiTimeout() time.Duration {
	return time.Duration(c.Gemini.TimeoutSec) * time.Second
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "yaml"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if err := validateThreshold(c.Extract.PDFQualityThreshold, "extract.pdf_quality_threshold"); err != nil {
		return err
	}

	if c.Extract.UseLLM && c.Gemini.APIKey == "" {
		return fmt.Errorf("extract.use_llm is enabled but gemini.api_key is not set")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %d (must not be negative)", c.Server.RateLimit)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}
	if c.Cache.TTLSec < 0 {
		return fmt.Errorf("invalid cache TTL: %d (must not be negative)", c.Cache.TTLSec)
	}
	if c.Gemini.TimeoutSec <= 0 {
		return fmt.Errorf("invalid gemini timeout: %d (must be positive)", c.Gemini.TimeoutSec)
	}

	return nil
}

// validateThreshold checks that a threshold value is between 0.0 and 1.0.
func validateThreshold(value float64, name string) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("invalid %s: %f (must be between 0.0 and 1.0)", name, value)
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
