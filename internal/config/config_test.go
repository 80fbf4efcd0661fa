package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "callreport.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
base_directory: /calls
audio_extensions: [".MP3", ".amr"]
parser_override: token
prefix_parsers: ["REC"]
report_db: /calls/report.db
watch:
  debounce_seconds: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseDirectory != "/calls" {
		t.Errorf("base directory = %q", cfg.BaseDirectory)
	}
	if !cfg.HasAudioExtension(".mp3") || !cfg.HasAudioExtension(".AMR") {
		t.Error("extensions should match case-insensitively")
	}
	if cfg.HasAudioExtension(".wav") {
		t.Error("unlisted extension matched")
	}
	if cfg.ParserOverride != "token" {
		t.Errorf("parser override = %q", cfg.ParserOverride)
	}
	if cfg.Watch.DebounceSeconds != 5 {
		t.Errorf("debounce = %d", cfg.Watch.DebounceSeconds)
	}
	if cfg.Watch.StableThresholdMs != 1000 {
		t.Errorf("stable threshold default = %d", cfg.Watch.StableThresholdMs)
	}
}

func TestLoadAppliesExtensionDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "base_directory: /calls\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.AudioExtensions) != 7 {
		t.Errorf("default extensions = %v", cfg.AudioExtensions)
	}
	if !cfg.HasAudioExtension(".flac") {
		t.Error("default set should include .flac")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Type != FileNotFound {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "base_directory: [unclosed\n"))

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Type != InvalidYAML {
		t.Errorf("expected INVALID_YAML, got %v", err)
	}
}

func TestValidateRequiresBaseDirectory(t *testing.T) {
	_, err := Load(writeConfig(t, "verbose: true\n"))

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Type != ValidationError {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestValidateRejectsBareExtension(t *testing.T) {
	_, err := Load(writeConfig(t, "base_directory: /calls\naudio_extensions: [\"mp3\"]\n"))

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Type != ValidationError {
		t.Errorf("expected VALIDATION_ERROR for extension without dot, got %v", err)
	}
}
