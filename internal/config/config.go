// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

// Package config loads FluMap configuration with Koanf v2.
//
// Configuration is layered, lowest priority first:
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, config.yaml, /etc/flumap/config.yaml)
//  3. Environment variables, through an explicit name mapping
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	store, err := dataset.NewStore(cfg.Data)
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Data     DataConfig     `koanf:"data"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - PORT / HTTP_PORT: listen port (default: 5001)
//   - HTTP_HOST: bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
//   - ENVIRONMENT: development or production (default: development)
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataConfig holds dataset storage settings.
//
// Environment Variables:
//   - DATA_DIR: directory or file-system URL holding <name>.csv datasets (default: data)
//   - DEFAULT_DATASET: dataset served when a request names none
//   - MAX_UPLOAD_BYTES: upload size limit (default: 10 MiB)
//   - UPLOAD_TEMP_MAX_AGE: age after which staged upload files are removed (default: 1h)
//   - UPLOAD_JANITOR_INTERVAL: how often staged uploads are swept (default: 10m)
//   - WATCH_DATASETS: watch DATA_DIR for changes (default: true)
//   - UPLOAD_RATE_PER_MINUTE: uploads allowed per user per minute (default: 6)
type DataConfig struct {
	Dir                 string        `koanf:"dir"`
	DefaultDataset      string        `koanf:"default_dataset"`
	MaxUploadBytes      int64         `koanf:"max_upload_bytes"`
	UploadTempMaxAge    time.Duration `koanf:"upload_temp_max_age"`
	JanitorInterval     time.Duration `koanf:"janitor_interval"`
	Watch               bool          `koanf:"watch"`
	UploadRatePerMinute int           `koanf:"upload_rate_per_minute"`
}

// SecurityConfig holds authentication, authorization and rate limiting settings.
//
// Environment Variables:
//   - AUTH_MODE: jwt or none (default: jwt)
//   - JWT_SECRET: HMAC secret, at least 32 characters (required for jwt)
//   - SESSION_TIMEOUT: token lifetime (default: 24h)
//   - USERS_FILE: CSV file of username,password[,role] rows (default: login/users.csv)
//   - CORS_ORIGIN / CORS_ORIGINS: comma-separated allowed origins (default: http://localhost:3000)
//   - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//   - LOCKOUT_MAX_ATTEMPTS, LOCKOUT_DURATION
//   - CASBIN_POLICY_PATH: optional policy file overriding the embedded policy
//   - SECURE_COOKIES: set the Secure flag on the auth cookie
type SecurityConfig struct {
	AuthMode           string        `koanf:"auth_mode"`
	JWTSecret          string        `koanf:"jwt_secret"`
	SessionTimeout     time.Duration `koanf:"session_timeout"`
	UsersFile          string        `koanf:"users_file"`
	CORSOrigins        []string      `koanf:"cors_origins"`
	RateLimitReqs      int           `koanf:"rate_limit_reqs"`
	RateLimitWindow    time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled  bool          `koanf:"rate_limit_disabled"`
	LockoutMaxAttempts int           `koanf:"lockout_max_attempts"`
	LockoutDuration    time.Duration `koanf:"lockout_duration"`
	PolicyPath         string        `koanf:"policy_path"`
	SecureCookies      bool          `koanf:"secure_cookies"`
}

// LoggingConfig holds logging settings passed to logging.Init.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
