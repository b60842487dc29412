package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "dirsize.yaml"

type Config struct {
	// Threshold is the upper bound for directories counted by the bounded sum.
	Threshold uint64 `yaml:"threshold"`
	// Capacity and Required drive the deletion-candidate query.
	Capacity uint64 `yaml:"capacity"`
	Required uint64 `yaml:"required"`
	// Exclude holds glob patterns skipped when recording a transcript.
	Exclude    []string `yaml:"exclude"`
	OutputFile string   `yaml:"output_file"`
	// Workers bounds concurrent solving of several transcripts. Zero means
	// one per CPU.
	Workers int `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Threshold: 100000,
		Capacity:  70000000,
		Required:  30000000,
		Exclude: []string{
			".git/",
			".svn/",
			"node_modules/",
			"vendor/",
			"__pycache__/",
			"*.tmp",
			"*.swp",
			".DS_Store",
			"Thumbs.db",
		},
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults unchanged.
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

	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Required > c.Capacity {
		return fmt.Errorf("invalid config: required space %d exceeds capacity %d", c.Required, c.Capacity)
	}
	if c.Workers < 0 {
		return errors.New("invalid config: workers must not be negative")
	}
	return nil
}
