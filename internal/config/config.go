// Package config loads runtime settings from an optional YAML file, a .env
// file and SPECTALOCKS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sadopc/spectalocks/internal/store"
	"github.com/spf13/viper"
)

type Config struct {
	DBPath          string
	LogFile         string
	LogLevel        string
	LocalizationURL string
	AppInfoURL      string
	HTTPTimeout     time.Duration
	RefreshInterval time.Duration
}

// Dir returns ~/.config/spectalocks
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "spectalocks"), nil
}

// Load reads configuration. An explicit path must exist; otherwise
// config.yaml in Dir() and the working directory is optional.
func Load(path string) (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()
	dir, err := Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}

	v.SetDefault("db_path", dbPath)
	v.SetDefault("log_file", filepath.Join(dir, "spectalocks.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("localization_url", "")
	v.SetDefault("app_info_url", "")
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("refresh_interval", time.Second)

	v.SetEnvPrefix("SPECTALOCKS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // .yaml is implicit
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DBPath:          v.GetString("db_path"),
		LogFile:         v.GetString("log_file"),
		LogLevel:        v.GetString("log_level"),
		LocalizationURL: v.GetString("localization_url"),
		AppInfoURL:      v.GetString("app_info_url"),
		HTTPTimeout:     v.GetDuration("http_timeout"),
		RefreshInterval: v.GetDuration("refresh_interval"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("config: db_path must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("config: refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	return nil
}
