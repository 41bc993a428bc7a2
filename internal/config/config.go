// Package config loads tracechain settings from YAML and the environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, TRACECHAIN_*
// environment variables, command-line flags (applied by the CLI).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/tracechain/internal/trace/record"
	"github.com/kolkov/tracechain/internal/trace/stream"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TRACECHAIN_"

// Config holds all tracechain settings.
type Config struct {
	// Buffer sizes the decoder's read window.
	Buffer BufferConfig `yaml:"buffer" envPrefix:"BUFFER_"`

	// MarkerTable is the path of a YAML marker table. Empty selects the
	// built-in table.
	MarkerTable string `yaml:"marker_table" env:"MARKER_TABLE"`

	// Tracker controls causal tracking policy.
	Tracker TrackerConfig `yaml:"tracker" envPrefix:"TRACKER_"`

	// Logging configures the zap logger.
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`

	// Metrics configures the textfile exporter.
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`
}

// BufferConfig sizes the read window.
type BufferConfig struct {
	Size     int `yaml:"size" env:"SIZE"`
	LowWater int `yaml:"low_water" env:"LOW_WATER"`
}

// TrackerConfig mirrors causality.Options.
type TrackerConfig struct {
	Strict            bool `yaml:"strict" env:"STRICT"`
	TrackChannelSends bool `yaml:"track_channel_sends" env:"TRACK_CHANNEL_SENDS"`
	SingleLane        bool `yaml:"single_lane" env:"SINGLE_LANE"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"FORMAT"` // json, console
}

// MetricsConfig configures metrics output.
type MetricsConfig struct {
	// Textfile is written in the Prometheus text format after each run.
	// Empty disables metrics output.
	Textfile string `yaml:"textfile" env:"TEXTFILE"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Buffer: BufferConfig{
			Size:     stream.DefaultSize,
			LowWater: stream.DefaultLowWater,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides.
//
// A missing file is not an error: defaults plus environment are returned.
// An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides overwrites fields whose TRACECHAIN_* variable is set.
func (c *Config) applyEnvOverrides() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if c.Buffer.LowWater < record.MaxRecordSize {
		return fmt.Errorf("buffer.low_water %d is below the largest record size %d",
			c.Buffer.LowWater, record.MaxRecordSize)
	}
	if c.Buffer.Size < c.Buffer.LowWater {
		return fmt.Errorf("buffer.size %d is smaller than buffer.low_water %d",
			c.Buffer.Size, c.Buffer.LowWater)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q: want debug, info, warn or error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q: want json or console", c.Logging.Format)
	}
	return nil
}
