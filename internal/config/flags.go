package config

import (
	"flag"
	"strings"
)

// packList collects repeated -pack flags.
type packList []string

func (p *packList) String() string { return strings.Join(*p, ",") }

func (p *packList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagNamespace = flag.String("namespace", "", "Default resource namespace")
	flagWorkers   = flag.Int("workers", 0, "Models baked concurrently")
	flagPacks     packList
)

func init() {
	flag.Var(&flagPacks, "pack", "Resource pack directory (repeatable, later packs win)")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagNamespace != "" {
		cfg.Namespace = *flagNamespace
	}
	if *flagWorkers > 0 {
		cfg.Bake.Workers = *flagWorkers
	}
	if len(flagPacks) > 0 {
		cfg.Packs = append([]string(nil), flagPacks...)
	}
}
