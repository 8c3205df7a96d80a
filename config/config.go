// Package config loads host-process configuration from TOML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Loop    LoopConfig    `toml:"loop"`
	Scripts ScriptsConfig `toml:"scripts"`
	Logging LoggingConfig `toml:"logging"`
}

type LoopConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	// FixedStep is the step size handed to fixed-timestep runners.
	FixedStep time.Duration `toml:"fixed_step"`
	// MaxCatchUp caps the fixed-step balance after a stall. Zero disables the
	// clamp (unbounded catch-up, the library default).
	MaxCatchUp time.Duration `toml:"max_catch_up"`
	// MaxTransitionsPerFrame caps state-machine cascades. Zero = unbounded.
	MaxTransitionsPerFrame int `toml:"max_transitions_per_frame"`
}

type ScriptsConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Loop: LoopConfig{
			TickRate:  200 * time.Millisecond,
			FixedStep: 100 * time.Millisecond,
		},
		Scripts: ScriptsConfig{
			Enabled: false,
			Dir:     "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
