package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("port must be positive")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "name: app\nport: 8765\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "app" || cfg.Port != 8765 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_APP_NAME", "from-env")
	path := writeConfig(t, "name: ${TEST_APP_NAME}\nport: 1\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("name = %q, want %q", cfg.Name, "from-env")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, "name: app\nport: 0\n")
	var cfg testConfig
	if err := Load(path, &cfg); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadIfPresent_MissingFile(t *testing.T) {
	cfg := testConfig{Name: "defaults", Port: 1}
	if err := LoadIfPresent(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err != nil {
		t.Fatalf("LoadIfPresent: %v", err)
	}
	if cfg.Name != "defaults" {
		t.Errorf("cfg should be untouched, got %+v", cfg)
	}
}

func TestLoadIfPresent_ExistingFile(t *testing.T) {
	path := writeConfig(t, "name: loaded\nport: 2\n")
	cfg := testConfig{Name: "defaults", Port: 1}
	if err := LoadIfPresent(path, &cfg); err != nil {
		t.Fatalf("LoadIfPresent: %v", err)
	}
	if cfg.Name != "loaded" || cfg.Port != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
}
