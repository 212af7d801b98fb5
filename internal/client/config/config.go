// Package config loads client configuration from defaults, an optional
// YAML file, and REPAIRDESK_* environment variables, in increasing
// priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backend names accepted in configuration.
const (
	StorageBolt   = "bolt"
	StorageSQLite = "sqlite"
)

// Config is the resolved client configuration.
type Config struct {
	ServerURL   string        `mapstructure:"server_url"`
	Storage     string        `mapstructure:"storage"`
	DBPath      string        `mapstructure:"db_path"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	// NotifyWindow is the dedup window of the generic notification
	// service. The fault handler keeps its own, wider window.
	NotifyWindow time.Duration `mapstructure:"notify_window"`

	LogLevel string `mapstructure:"log_level"`
}

// Load resolves the configuration. When path is empty only an optional
// config.yaml under the user config directory is consulted; a missing
// file is not an error, a malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("storage", StorageBolt)
	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("notify_window", time.Second)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("REPAIRDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "repairdesk"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return errors.New("server_url must not be empty")
	}
	if c.Storage != StorageBolt && c.Storage != StorageSQLite {
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", c.Storage, StorageBolt, StorageSQLite)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http_timeout must be positive")
	}
	if c.NotifyWindow <= 0 {
		return errors.New("notify_window must be positive")
	}
	return nil
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "repairdesk.db"
	}
	return filepath.Join(dir, "repairdesk", "client.db")
}
