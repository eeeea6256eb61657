package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "dupfind.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `exclude:
  - "*.tmp"
  - "*.log"
  - ".git/"
  - "node_modules/"
workers: 3
algorithm: blake3
follow_symlinks: true
on_error: abort
gitignore: true
format: json
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	expectedExclude := []string{"*.tmp", "*.log", ".git/", "node_modules/"}
	if len(cfg.Exclude) != len(expectedExclude) {
		t.Fatalf("Expected %d exclude patterns, got %d", len(expectedExclude), len(cfg.Exclude))
	}
	for i, expected := range expectedExclude {
		if cfg.Exclude[i] != expected {
			t.Errorf("Exclude[%d]: expected %q, got %q", i, expected, cfg.Exclude[i])
		}
	}

	if cfg.Workers != 3 {
		t.Errorf("Expected workers 3, got %d", cfg.Workers)
	}
	if cfg.Algorithm != "blake3" {
		t.Errorf("Expected algorithm blake3, got %q", cfg.Algorithm)
	}
	if !cfg.FollowSymlinks || !cfg.Gitignore {
		t.Error("Expected follow_symlinks and gitignore to be set")
	}
	if cfg.OnError != "abort" {
		t.Errorf("Expected on_error abort, got %q", cfg.OnError)
	}
	if cfg.Format != "json" {
		t.Errorf("Expected format json, got %q", cfg.Format)
	}
}

func TestLoadConfig_PartialConfigKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "workers: 2\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	def := DefaultConfig()
	if cfg.Workers != 2 {
		t.Errorf("Expected workers 2, got %d", cfg.Workers)
	}
	if cfg.Algorithm != def.Algorithm || cfg.OnError != def.OnError || cfg.Format != def.Format {
		t.Errorf("Unset keys should keep defaults, got %+v", cfg)
	}
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/dupfind.yaml")
	if err != nil {
		t.Fatalf("LoadConfig should return default config for nonexistent file, got error: %v", err)
	}

	if cfg.Exclude == nil {
		t.Error("Exclude should not be nil")
	}
	if cfg.Workers < 1 {
		t.Errorf("Default workers should be positive, got %d", cfg.Workers)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `exclude:
  - "*.tmp"
 invalid: [syntax
`)

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("LoadConfig should return error for invalid YAML")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	for _, content := range []string{
		"algorithm: md5\n",
		"on_error: retry\n",
		"format: xml\n",
		"workers: -1\n",
	} {
		if _, err := LoadConfig(writeConfig(t, content)); err == nil {
			t.Errorf("LoadConfig should reject %q", content)
		}
	}
}

func TestLoadConfig_EmptyConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadConfig failed for empty config: %v", err)
	}

	if cfg.Exclude == nil {
		t.Error("Exclude should not be nil")
	}
	if cfg.Algorithm != "xxhash" {
		t.Errorf("Expected default algorithm xxhash, got %q", cfg.Algorithm)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if len(cfg.Exclude) != 0 {
		t.Errorf("Default config should not exclude anything, got %v", cfg.Exclude)
	}
	if cfg.Workers > maxDefaultWorkers {
		t.Errorf("Default workers should be capped at %d, got %d", maxDefaultWorkers, cfg.Workers)
	}
}
