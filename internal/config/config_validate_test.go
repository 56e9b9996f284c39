// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults with secret", mutate: func(*Config) {}},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.Data.Dir = " " },
			wantErr: "DATA_DIR",
		},
		{
			name:    "default dataset is a path",
			mutate:  func(c *Config) { c.Data.DefaultDataset = "../etc/passwd" },
			wantErr: "DEFAULT_DATASET",
		},
		{
			name:    "upload limit too small",
			mutate:  func(c *Config) { c.Data.MaxUploadBytes = 10 },
			wantErr: "MAX_UPLOAD_BYTES",
		},
		{
			name:    "unknown auth mode",
			mutate:  func(c *Config) { c.Security.AuthMode = "oidc" },
			wantErr: "AUTH_MODE",
		},
		{
			name: "auth none in production",
			mutate: func(c *Config) {
				c.Security.AuthMode = "none"
				c.Server.Environment = "production"
			},
			wantErr: "AUTH_MODE=none",
		},
		{
			name: "auth none in development",
			mutate: func(c *Config) {
				c.Security.AuthMode = "none"
				c.Security.JWTSecret = ""
			},
		},
		{
			name: "wildcard cors in production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.CORSOrigins = []string{"*"}
			},
			wantErr: "CORS_ORIGINS",
		},
		{
			name:    "short secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "short" },
			wantErr: "at least 32",
		},
		{
			name:    "placeholder secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "REPLACE_WITH_A_REAL_SECRET_VALUE_123456" },
			wantErr: "placeholder",
		},
		{
			name:    "rate limit window too long",
			mutate:  func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour },
			wantErr: "RATE_LIMIT_WINDOW",
		},
		{
			name: "rate limit disabled skips bounds",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
		},
		{
			name:    "zero lockout attempts",
			mutate:  func(c *Config) { c.Security.LockoutMaxAttempts = 0 },
			wantErr: "LOCKOUT_MAX_ATTEMPTS",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Environment = "prod"
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("prod should be production")
	}
	cfg.Server.Environment = ""
	if cfg.IsProduction() || !cfg.IsDevelopment() {
		t.Error("empty environment should be development")
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	cfg := validConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("default origins should not warn")
	}
	cfg.Security.CORSOrigins = []string{"*"}
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard with auth should warn")
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 5001}
	if got := s.Addr(); got != "127.0.0.1:5001" {
		t.Errorf("Addr() = %q", got)
	}
}
