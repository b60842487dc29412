package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "dirsize.yaml")

	configContent := `threshold: 5000
capacity: 1000000
required: 250000
exclude:
  - "*.tmp"
  - "*.log"
  - ".git/"
  - "node_modules/"
output_file: "output/custom-report.json"
workers: 3
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

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

	if cfg.Threshold != 5000 || cfg.Capacity != 1000000 || cfg.Required != 250000 {
		t.Errorf("Unexpected query parameters: %+v", cfg)
	}

	if cfg.OutputFile != "output/custom-report.json" {
		t.Errorf("Expected output_file %q, got %q", "output/custom-report.json", cfg.OutputFile)
	}

	if cfg.Workers != 3 {
		t.Errorf("Expected workers 3, got %d", cfg.Workers)
	}
}

func TestLoadConfig_PartialConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "dirsize.yaml")

	if err := os.WriteFile(configPath, []byte("threshold: 42\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Threshold != 42 {
		t.Errorf("Expected threshold 42, got %d", cfg.Threshold)
	}
	if cfg.Capacity != defaults.Capacity || cfg.Required != defaults.Required {
		t.Errorf("Expected default capacity/required, got %d/%d", cfg.Capacity, cfg.Required)
	}
	if len(cfg.Exclude) != len(defaults.Exclude) {
		t.Errorf("Expected default exclude patterns, got %v", cfg.Exclude)
	}
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/dirsize.yaml")
	if err != nil {
		t.Fatalf("LoadConfig should return default config for nonexistent file, got error: %v", err)
	}

	if len(cfg.Exclude) == 0 {
		t.Error("Default config should have some exclude patterns")
	}

	if cfg.OutputFile != "" {
		t.Errorf("Expected default output_file to be empty, got %q", cfg.OutputFile)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := "threshold: [1, 2\ncapacity: x\n"

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("LoadConfig should return error for invalid YAML")
	}
}

func TestLoadConfig_RequiredExceedsCapacity(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "dirsize.yaml")

	if err := os.WriteFile(configPath, []byte("capacity: 10\nrequired: 20\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("LoadConfig should reject required > capacity")
	}
}

func TestLoadConfig_EmptyConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "empty.yaml")

	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed for empty config: %v", err)
	}

	if cfg.Exclude == nil {
		t.Error("Exclude should not be nil")
	}

	if cfg.Threshold != DefaultConfig().Threshold {
		t.Errorf("Expected default threshold, got %d", cfg.Threshold)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	expectedPatterns := []string{".git/", "node_modules/", "__pycache__/"}
	for _, pattern := range expectedPatterns {
		found := false
		for _, exclude := range cfg.Exclude {
			if exclude == pattern {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Default config should include pattern %q", pattern)
		}
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}
