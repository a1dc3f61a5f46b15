package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gtynan/vehicle-routing/internal/model"
)

// Config holds the solver defaults applied when a problem file leaves them
// unset. It is loaded per invocation and passed along explicitly; there is
// no shared mutable default state.
type Config struct {
	Solver SolverConfig `json:"solver"`
}

// SolverConfig mirrors the per-solve search parameters.
type SolverConfig struct {
	// Strategy is the first-solution heuristic name.
	Strategy string `json:"strategy"`
	// TimeLimitSeconds bounds the improvement phase.
	TimeLimitSeconds int `json:"time_limit_seconds"`
	// MaxTime is the per-vehicle working-time budget in matrix units.
	MaxTime int64 `json:"max_time"`
	// MetricsListen optionally exposes the Prometheus registry on this
	// address during a solve, e.g. ":9090".
	MetricsListen string `json:"metrics_listen"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Solver.Strategy == "" {
		c.Solver.Strategy = "path_cheapest_arc"
	}
	if c.Solver.TimeLimitSeconds <= 0 {
		c.Solver.TimeLimitSeconds = model.DefaultTimeLimitSeconds
	}
	if c.Solver.MaxTime <= 0 {
		c.Solver.MaxTime = model.DefaultMaxTime
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Solver.Strategy {
	case "path_cheapest_arc", "parallel_cheapest_insertion":
	default:
		return fmt.Errorf("unknown solver strategy %s", c.Solver.Strategy)
	}
	if c.Solver.TimeLimitSeconds <= 0 {
		return fmt.Errorf("time_limit_seconds must be positive")
	}
	return nil
}

// Load reads a YAML or JSON config file and applies VR_-prefixed
// environment overrides (VR_SOLVER__STRATEGY and friends).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	k := koanf.New(".")
	cfg := &Config{}
	if err := loadEnv(k); err == nil {
		_ = k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"})
	}
	cfg.SetDefaults()
	return cfg
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider("VR_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "vr_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
}
