// Package config loads runtime settings from an optional config file and
// STOCKPILE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, with dots in
// keys replaced by underscores: STOCKPILE_STORE_DRIVER sets store.driver.
const EnvPrefix = "STOCKPILE"

// Config holds every setting. Command-line flags are applied on top by
// the caller.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Recalc  RecalcConfig  `mapstructure:"recalc"`
	Plan    PlanConfig    `mapstructure:"plan"`
}

// LogConfig sets the log level and an optional log file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// CatalogConfig points at catalog and group files replacing the built-in ones.
type CatalogConfig struct {
	File       string `mapstructure:"file"`
	GroupsFile string `mapstructure:"groups_file"`
}

// StoreConfig selects the override store driver and its DSN.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// ServerConfig holds the HTTP listen address.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// RecalcConfig tunes the interactive recalculation loop.
type RecalcConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// PlanConfig holds the category selection used when a request names none.
type PlanConfig struct {
	Categories []string `mapstructure:"categories"`
}

var defaults = map[string]any{
	"log.level":           "normal",
	"log.file":            "",
	"catalog.file":        "",
	"catalog.groups_file": "",
	"store.driver":        "memory",
	"store.dsn":           "",
	"server.addr":         ":8080",
	"recalc.debounce":     "300ms",
	"plan.categories":     []string{},
}

// Load reads settings. With an empty path it looks for stockpile.{toml,yaml,json}
// in the working directory and carries on without one; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("stockpile")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.DSN == "" {
		return errors.New("store.dsn: required for postgres")
	}
	if c.Recalc.Debounce < 0 {
		return fmt.Errorf("recalc.debounce: must not be negative, got %s", c.Recalc.Debounce)
	}
	return nil
}
