// Package config handles configuration for the CLI client.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the Recipe Box CLI client.
type Config struct {
	// ServerURL is the base URL of the Recipe Box API.
	ServerURL string `env:"RECIPEBOX_SERVER"`
}

// LoadDefaults populates Config with local development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
}

// LoadConfig builds a Config by applying defaults and then overlaying
// environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
