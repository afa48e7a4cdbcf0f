// Package config holds the client-side settings for reaching the
// leaderboard authority.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for settings.
const DefaultPath = "brc.yaml"

// Config are the settings for one authority endpoint.
type Config struct {
	ServerURL      string `yaml:"server_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		ServerURL:      "https://api.benchmark-results.dev",
		TimeoutSeconds: 30,
	}
}

// Load reads path (when it exists) over the defaults, then applies
// BRC_SERVER_URL and BRC_API_KEY environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if FileExists(path) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if v := os.Getenv("BRC_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("BRC_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if cfg.ServerURL == "" {
		return Config{}, fmt.Errorf("config %s: server_url must not be empty", path)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultConfig().TimeoutSeconds
	}
	return cfg, nil
}

// Write saves cfg to path.
func Write(path string, cfg Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
