package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"dupfind/internal/hash"
)

const DefaultPath = "dupfind.yaml"

// maxDefaultWorkers keeps the default pool from saturating a single disk.
const maxDefaultWorkers = 8

type Config struct {
	Exclude        []string `yaml:"exclude"`
	Workers        int      `yaml:"workers"`
	Algorithm      string   `yaml:"algorithm"`
	FollowSymlinks bool     `yaml:"follow_symlinks"`
	OnError        string   `yaml:"on_error"`
	Gitignore      bool     `yaml:"gitignore"`
	Format         string   `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude:   []string{},
		Workers:   defaultWorkers(),
		Algorithm: string(hash.XXHash),
		OnError:   "skip",
		Format:    "text",
	}
}

func defaultWorkers() int {
	return min(runtime.NumCPU(), maxDefaultWorkers)
}

// LoadConfig reads the YAML file at path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize Exclude slice if nil (for explicit empty lists)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := hash.ParseAlgorithm(c.Algorithm); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.OnError {
	case "skip", "abort":
	default:
		return fmt.Errorf("invalid config: on_error must be skip or abort, got %q", c.OnError)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid config: format must be text or json, got %q", c.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid config: workers must not be negative, got %d", c.Workers)
	}
	return nil
}
