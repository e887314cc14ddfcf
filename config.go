package depot

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds host-tunable world settings loaded from TOML.
type Config struct {
	World   WorldConfig   `toml:"world"`
	Logging LoggingConfig `toml:"logging"`
}

type WorldConfig struct {
	Capacity      int `toml:"capacity"`
	EntityCeiling int `toml:"entity_ceiling"` // 0 means the capacity
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// LoadConfig reads a TOML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Capacity: DefaultCapacity,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// NewWorldFromConfig builds a world with capacity, ceiling, and logging
// taken from cfg.
func NewWorldFromConfig(schema *Schema, cfg *Config) (*World, error) {
	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	opts := []WorldOption{
		WithCapacity(cfg.World.Capacity),
		WithLogger(logger),
	}
	if cfg.World.EntityCeiling > 0 {
		opts = append(opts, WithEntityCeiling(cfg.World.EntityCeiling))
	}
	return NewWorld(schema, opts...)
}
