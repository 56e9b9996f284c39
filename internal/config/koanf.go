// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/flumap/config.yaml",
	"/etc/flumap/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultDatasetName is the dataset served when a request does not name one.
const DefaultDatasetName = "fake_bird_data_switzerland_v2"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        5001,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Data: DataConfig{
			Dir:                 "data",
			DefaultDataset:      DefaultDatasetName,
			MaxUploadBytes:      10 << 20,
			UploadTempMaxAge:    time.Hour,
			JanitorInterval:     10 * time.Minute,
			Watch:               true,
			UploadRatePerMinute: 6,
		},
		Security: SecurityConfig{
			AuthMode:           "jwt",
			SessionTimeout:     24 * time.Hour,
			UsersFile:          "login/users.csv",
			CORSOrigins:        []string{"http://localhost:3000"},
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			LockoutMaxAttempts: 5,
			LockoutDuration:    15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf builds the configuration from defaults, an optional YAML file
// and environment variables, in that order of increasing precedence.
func LoadWithKoanf() (*Config, error) {
	cfg, err := loadLayers()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadData loads the same layers as LoadWithKoanf but validates only the
// data section. Offline tools use it without needing auth secrets.
func LoadData() (DataConfig, error) {
	cfg, err := loadLayers()
	if err != nil {
		return DataConfig{}, err
	}
	if err := cfg.validateData(); err != nil {
		return DataConfig{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg.Data, nil
}

func loadLayers() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// PORT and CORS_ORIGIN keep the names the first deployments used.
var envMappings = map[string]string{
	"port":         "server.port",
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"data_dir":                "data.dir",
	"default_dataset":         "data.default_dataset",
	"max_upload_bytes":        "data.max_upload_bytes",
	"upload_temp_max_age":     "data.upload_temp_max_age",
	"upload_janitor_interval": "data.janitor_interval",
	"watch_datasets":          "data.watch",
	"upload_rate_per_minute":  "data.upload_rate_per_minute",

	"auth_mode":            "security.auth_mode",
	"jwt_secret":           "security.jwt_secret",
	"session_timeout":      "security.session_timeout",
	"users_file":           "security.users_file",
	"cors_origin":          "security.cors_origins",
	"cors_origins":         "security.cors_origins",
	"rate_limit_requests":  "security.rate_limit_reqs",
	"rate_limit_window":    "security.rate_limit_window",
	"disable_rate_limit":   "security.rate_limit_disabled",
	"lockout_max_attempts": "security.lockout_max_attempts",
	"lockout_duration":     "security.lockout_duration",
	"casbin_policy_path":   "security.policy_path",
	"secure_cookies":       "security.secure_cookies",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped names return "" so unrelated variables never reach the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
