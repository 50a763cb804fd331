// Package config handles ctmtool configuration loading and management.
package config

import "time"

// Config holds all tool settings.
type Config struct {
	Packs     []string      `yaml:"packs"`
	Namespace string        `yaml:"namespace"`
	Bake      BakeConfig    `yaml:"bake"`
	Watch     WatchConfig   `yaml:"watch"`
	Logging   LoggingConfig `yaml:"logging"`
}

// BakeConfig holds model baking settings.
type BakeConfig struct {
	Workers      int    `yaml:"workers"`       // Models baked concurrently
	VertexFormat string `yaml:"vertex_format"` // Passed through to the vanilla bake
}

// WatchConfig holds reload watcher settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Packs:     []string{"resources"},
		Namespace: "minecraft",
		Bake: BakeConfig{
			Workers:      4,
			VertexFormat: "block",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
