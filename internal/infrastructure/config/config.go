package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App    AppConfig
	Log    LogConfig
	Store  StoreConfig
	Import ImportConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// StoreConfig holds snapshot store settings.
type StoreConfig struct {
	// File is the warehouse file to load on startup. Empty starts a fresh
	// warehouse with no file association.
	File string
	// LogLevel is the GORM log level for snapshot store queries.
	LogLevel string
}

// ImportConfig holds flat-file import settings.
type ImportConfig struct {
	// File is an optional bootstrap file replayed into a fresh warehouse on
	// startup. Ignored when Store.File is set.
	File string
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with WM_ prefix (e.g., WM_STORE_FILE)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("WM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Store: StoreConfig{
			File:     v.GetString("store.file"),
			LogLevel: v.GetString("store.log_level"),
		},
		Import: ImportConfig{
			File: v.GetString("import.file"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "warehouse-manager"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Store.LogLevel == "" {
		cfg.Store.LogLevel = "warn"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	switch c.Store.LogLevel {
	case "silent", "error", "warn", "info", "debug":
	default:
		return fmt.Errorf("store.log_level must be one of silent, error, warn, info, debug, got %q", c.Store.LogLevel)
	}
	if c.Store.File != "" && c.Import.File != "" {
		return fmt.Errorf("store.file and import.file are mutually exclusive")
	}
	return nil
}
