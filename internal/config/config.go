// Package config loads configuration for the demo binary.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the demo harness configuration.
type Config struct {
	// Rules is the path to the rule document to interpret.
	Rules string `mapstructure:"rules"`

	// Seed makes the demo deterministic when non-empty.
	Seed string `mapstructure:"seed"`

	// Players are the seat names in turn order.
	Players []string `mapstructure:"players"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from a file, with KABU_-prefixed environment
// variables overriding file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("KABU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("rules", "config/kabu.rules.json")
	v.SetDefault("players", []string{"Alice", "Bob"})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.Players) < 2 {
		return nil, fmt.Errorf("at least 2 players required, got %d", len(cfg.Players))
	}
	return &cfg, nil
}
