// Package config handles configuration loading and validation for the report
// generator.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidYAML     ConfigErrorType = "INVALID_YAML"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidYAML:
		return fmt.Sprintf("invalid YAML in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	DebounceSeconds   int      `yaml:"debounce_seconds"`
	StableThresholdMs int      `yaml:"stable_threshold_ms"`
	IgnorePatterns    []string `yaml:"ignore_patterns"`
}

// Configuration holds all settings for a report run.
type Configuration struct {
	// BaseDirectory is the root of the recording tree.
	BaseDirectory string `yaml:"base_directory"`
	// AudioExtensions lists the recording extensions to report on,
	// lower-cased with leading dot.
	AudioExtensions []string `yaml:"audio_extensions"`
	// ParserOverride names a filename parser strategy to force for every
	// file, bypassing the strategy chain. Empty means chain resolution.
	ParserOverride string `yaml:"parser_override"`
	// PrefixParsers lists literal filename prefixes to register prefix
	// strategies for.
	PrefixParsers []string `yaml:"prefix_parsers"`
	// ReportDB is an optional SQLite database path for the queryable
	// report index. Empty disables the index.
	ReportDB string `yaml:"report_db"`
	// Verbose enables per-file console output.
	Verbose bool        `yaml:"verbose"`
	Watch   WatchConfig `yaml:"watch"`
}

// DefaultAudioExtensions returns the supported recording extensions.
func DefaultAudioExtensions() []string {
	return []string{".mp3", ".wav", ".mp4", ".m4a", ".flac", ".ogg", ".amr"}
}

// Validate checks that the configuration has all required fields.
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.BaseDirectory) == "" {
		return &ConfigError{
			Type:    ValidationError,
			Message: "base_directory must be set",
		}
	}
	for i, ext := range c.AudioExtensions {
		if !strings.HasPrefix(ext, ".") {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("audio_extensions[%d] %q must start with a dot", i, ext),
			}
		}
	}
	return nil
}

// ApplyDefaults fills in zero values with defaults.
func (c *Configuration) ApplyDefaults() {
	if len(c.AudioExtensions) == 0 {
		c.AudioExtensions = DefaultAudioExtensions()
	}
	for i, ext := range c.AudioExtensions {
		c.AudioExtensions[i] = strings.ToLower(ext)
	}
	if c.Watch.DebounceSeconds == 0 {
		c.Watch.DebounceSeconds = 2
	}
	if c.Watch.StableThresholdMs == 0 {
		c.Watch.StableThresholdMs = 1000
	}
}

// HasAudioExtension reports whether the given lower-cased extension is in
// the configured recording set.
func (c *Configuration) HasAudioExtension(ext string) bool {
	for _, e := range c.AudioExtensions {
		if e == strings.ToLower(ext) {
			return true
		}
	}
	return false
}

// Load reads, parses, and validates a configuration file.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Type: FileNotFound, Path: filePath}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidYAML,
			Message: err.Error(),
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.ApplyDefaults()

	return &config, nil
}
