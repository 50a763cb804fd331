package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Packs) != 1 || cfg.Packs[0] != "resources" {
		t.Errorf("expected default pack 'resources', got %v", cfg.Packs)
	}
	if cfg.Namespace != "minecraft" {
		t.Errorf("expected namespace 'minecraft', got %s", cfg.Namespace)
	}
	if cfg.Bake.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Bake.Workers)
	}
	if cfg.Bake.VertexFormat != "block" {
		t.Errorf("expected vertex format 'block', got %s", cfg.Bake.VertexFormat)
	}
	if cfg.Watch.Debounce != 200*time.Millisecond {
		t.Errorf("expected debounce 200ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
packs:
  - vanilla
  - chisel
namespace: chisel
bake:
  workers: 8
  vertex_format: item
watch:
  debounce: 1s
logging:
  level: "debug"
  log_file: "ctm.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Packs) != 2 || cfg.Packs[1] != "chisel" {
		t.Errorf("expected packs [vanilla chisel], got %v", cfg.Packs)
	}
	if cfg.Namespace != "chisel" {
		t.Errorf("expected namespace chisel, got %s", cfg.Namespace)
	}
	if cfg.Bake.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Bake.Workers)
	}
	if cfg.Bake.VertexFormat != "item" {
		t.Errorf("expected vertex format item, got %s", cfg.Bake.VertexFormat)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "ctm.log" {
		t.Errorf("expected log file 'ctm.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
bake:
  workers: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no packs", func(c *Config) { c.Packs = nil }},
		{"no workers", func(c *Config) { c.Bake.Workers = 0 }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "namespace flag",
			setup: func() { *flagNamespace = "chisel" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Namespace != "chisel" {
					t.Errorf("expected namespace chisel, got %s", cfg.Namespace)
				}
			},
			teardown: func() { *flagNamespace = "" },
		},
		{
			name:  "workers flag",
			setup: func() { *flagWorkers = 16 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Bake.Workers != 16 {
					t.Errorf("expected 16 workers, got %d", cfg.Bake.Workers)
				}
			},
			teardown: func() { *flagWorkers = 0 },
		},
		{
			name: "pack flags",
			setup: func() {
				_ = flagPacks.Set("base")
				_ = flagPacks.Set("overlay")
			},
			verify: func(t *testing.T, cfg *Config) {
				if len(cfg.Packs) != 2 || cfg.Packs[0] != "base" || cfg.Packs[1] != "overlay" {
					t.Errorf("expected packs [base overlay], got %v", cfg.Packs)
				}
			},
			teardown: func() { flagPacks = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
namespace: fromfile
bake:
  workers: 2
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWorkers = 6
	defer func() {
		*flagConfig = ""
		*flagWorkers = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Bake.Workers != 6 {
		t.Errorf("expected 6 workers from flag, got %d", cfg.Bake.Workers)
	}
	if cfg.Namespace != "fromfile" {
		t.Errorf("expected namespace from file, got %s", cfg.Namespace)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Packs = []string{"a", "b"}
	cfg.Watch.Debounce = 750 * time.Millisecond

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(loaded.Packs) != 2 || loaded.Packs[1] != "b" {
		t.Errorf("expected packs [a b], got %v", loaded.Packs)
	}
	if loaded.Watch.Debounce != 750*time.Millisecond {
		t.Errorf("expected debounce 750ms, got %v", loaded.Watch.Debounce)
	}
}
