// Package config loads the YAML configuration file and applies
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults used when the file or a field is absent.
const (
	DefaultAddr    = ":8080"
	DefaultDSN     = "file:groupdir.db"
	DefaultBaseURL = "http://localhost:8080"
)

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Client   ClientConfig   `yaml:"client"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig configures the store connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ClientConfig configures the remote directory client.
type ClientConfig struct {
	BaseURL string `yaml:"base-url"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // When set, logs rotate in this file.
}

// Load reads the configuration file at path. A missing file is not an
// error; defaults and environment overrides still apply. Recognized
// overrides: GROUPDIR_ADDR, GROUPDIR_DSN, GROUPDIR_BASE_URL.
func Load(path string) (Config, error) {
	cfg := Config{}

	trimmed := strings.TrimSpace(path)
	if trimmed != "" {
		data, errRead := os.ReadFile(trimmed)
		switch {
		case errRead == nil:
			if errParse := yaml.Unmarshal(data, &cfg); errParse != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", trimmed, errParse)
			}
		case os.IsNotExist(errRead):
			// Defaults below.
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", trimmed, errRead)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if value := strings.TrimSpace(os.Getenv("GROUPDIR_ADDR")); value != "" {
		cfg.Server.Addr = value
	}
	if value := strings.TrimSpace(os.Getenv("GROUPDIR_DSN")); value != "" {
		cfg.Database.DSN = value
	}
	if value := strings.TrimSpace(os.Getenv("GROUPDIR_BASE_URL")); value != "" {
		cfg.Client.BaseURL = value
	}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = DefaultDSN
	}
	if strings.TrimSpace(cfg.Client.BaseURL) == "" {
		cfg.Client.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
}
