package config

import (
	"fmt"
	"time"

	"github.com/plexdedupe/plexdedupe/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Plex    PlexConfig    `yaml:"plex"`
	Clean   CleanConfig   `yaml:"clean"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// PlexConfig holds the connection to the media server
type PlexConfig struct {
	URL          string        `yaml:"url"`
	Token        string        `yaml:"token"`
	Timeout      time.Duration `yaml:"timeout"`
	InsecureTLS  bool          `yaml:"insecure_tls"`
	IncludeShows bool          `yaml:"include_shows"`
}

// CleanConfig holds decision and execution defaults
type CleanConfig struct {
	Strategy   models.Strategy `yaml:"strategy"`    // largest, smallest
	Mode       models.ExecMode `yaml:"mode"`        // delete, hardlink
	BufferSize int             `yaml:"buffer_size"` // hash read buffer in bytes
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // show progress bars on TTYs
	Quiet    bool   `yaml:"quiet"`    // suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // log file path
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Plex: PlexConfig{
			URL:          "http://localhost:32400",
			Timeout:      30 * time.Second,
			IncludeShows: true,
		},
		Clean: CleanConfig{
			Strategy:   models.KeepLargest,
			Mode:       models.ModeDelete,
			BufferSize: 128 * 1024,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Plex.URL == "" {
		return &ValidationError{Field: "plex.url", Message: "server URL is required"}
	}
	if !c.Clean.Strategy.Valid() {
		return &ValidationError{Field: "clean.strategy", Message: fmt.Sprintf("unknown strategy %q (use: largest, smallest)", c.Clean.Strategy)}
	}
	if c.Clean.Mode != models.ModeDelete && c.Clean.Mode != models.ModeHardlink {
		return &ValidationError{Field: "clean.mode", Message: fmt.Sprintf("unknown mode %q (use: delete, hardlink)", c.Clean.Mode)}
	}
	if c.Clean.BufferSize < 1024 {
		return &ValidationError{Field: "clean.buffer_size", Message: "buffer size must be at least 1024 bytes"}
	}
	switch c.Output.Format {
	case "human", "json":
	default:
		return &ValidationError{Field: "output.format", Message: fmt.Sprintf("unknown format %q (use: human, json)", c.Output.Format)}
	}
	return nil
}
