// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	RedisURL  string `env:"OBLOG_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	KeyPrefix string `env:"OBLOG_KEY_PREFIX" envDefault:"oblog:"`

	ServerHost string `env:"OBLOG_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"OBLOG_SERVER_PORT" envDefault:"9000"`
	Env        string `env:"OBLOG_ENV" envDefault:"development"`
	LogLevel   string `env:"OBLOG_LOG_LEVEL" envDefault:"info"`

	// GitHub OAuth application credentials. Federated login is disabled
	// when either is empty.
	GitHubClientID     string `env:"OBLOG_GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"OBLOG_GITHUB_CLIENT_SECRET"`

	// EventRetention is how many audit events the trim job keeps.
	EventRetention int `env:"OBLOG_EVENT_RETENTION" envDefault:"10000"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// GitHubEnabled returns true if federated login is configured.
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("OBLOG_REDIS_URL must not be empty; the key-value store holds all durable state")
	}

	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret == "" {
		return nil, fmt.Errorf("OBLOG_GITHUB_CLIENT_SECRET is required when OBLOG_GITHUB_CLIENT_ID is set")
	}

	return cfg, nil
}
