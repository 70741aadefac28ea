package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	App struct {
		Name   string `envconfig:"APP_NAME" default:"Pennywise"`
		Locale string `envconfig:"LOCALE"`
	}

	Data struct {
		Backend    string `envconfig:"DATA_BACKEND" default:"sqlite"`
		SQLitePath string `envconfig:"SQLITE_DB_PATH" default:"./data/pennywise.db"`
		ExportDir  string `envconfig:"EXPORT_DIR" default:"./exports"`
	}

	Theme struct {
		CheckInterval time.Duration `envconfig:"THEME_CHECK_INTERVAL" default:"1m"`
	}

	Log struct {
		File  string `envconfig:"LOG_FILE" default:"pennywise.log"`
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

// LogLevel parses Log.Level, defaulting to info for unknown values.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}

	return level
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.Data.Backend = strings.ToLower(cfg.Data.Backend)
	switch cfg.Data.Backend {
	case BackendSQLite, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown DATA_BACKEND %q: want %s or %s", cfg.Data.Backend, BackendSQLite, BackendMemory)
	}

	if cfg.Theme.CheckInterval < time.Second {
		return nil, fmt.Errorf("THEME_CHECK_INTERVAL must be at least 1s, got %s", cfg.Theme.CheckInterval)
	}

	return &cfg, nil
}
