// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const testSecret = "a_test_secret_that_is_long_enough_1234567890"

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5001 {
		t.Errorf("Server.Port = %d, want 5001", cfg.Server.Port)
	}
	if cfg.Data.Dir != "data" {
		t.Errorf("Data.Dir = %q, want data", cfg.Data.Dir)
	}
	if cfg.Data.DefaultDataset != DefaultDatasetName {
		t.Errorf("Data.DefaultDataset = %q, want %q", cfg.Data.DefaultDataset, DefaultDatasetName)
	}
	if cfg.Data.MaxUploadBytes != 10<<20 {
		t.Errorf("Data.MaxUploadBytes = %d, want 10MiB", cfg.Data.MaxUploadBytes)
	}
	if cfg.Security.UsersFile != "login/users.csv" {
		t.Errorf("Security.UsersFile = %q, want login/users.csv", cfg.Security.UsersFile)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"http://localhost:3000"}) {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Security.LockoutMaxAttempts != 5 || cfg.Security.LockoutDuration != 15*time.Minute {
		t.Errorf("lockout defaults = %d/%v, want 5/15m", cfg.Security.LockoutMaxAttempts, cfg.Security.LockoutDuration)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"PORT", "server.port"},
		{"HTTP_PORT", "server.port"},
		{"DATA_DIR", "data.dir"},
		{"CORS_ORIGIN", "security.cors_origins"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"USERS_FILE", "security.users_file"},
		{"LOG_LEVEL", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("CORS_ORIGINS", "http://a.example.org, http://b.example.org")
	t.Setenv("DATA_DIR", "/srv/flumap/data")
	t.Setenv("SESSION_TIMEOUT", "2h")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Data.Dir != "/srv/flumap/data" {
		t.Errorf("Data.Dir = %q", cfg.Data.Dir)
	}
	if cfg.Security.SessionTimeout != 2*time.Hour {
		t.Errorf("SessionTimeout = %v, want 2h", cfg.Security.SessionTimeout)
	}
	want := []string{"http://a.example.org", "http://b.example.org"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
data:
  dir: /var/lib/flumap
  default_dataset: denmark_2023
security:
  auth_mode: jwt
  jwt_secret: ` + testSecret + `
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Data.DefaultDataset != "denmark_2023" {
		t.Errorf("DefaultDataset = %q, want denmark_2023", cfg.Data.DefaultDataset)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env should override file: Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_MissingSecret(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing in jwt mode")
	}
}

func TestLoadData_IgnoresSecurity(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATA_DIR", "/srv/flumap")

	data, err := LoadData()
	if err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if data.Dir != "/srv/flumap" {
		t.Errorf("Dir = %q, want /srv/flumap", data.Dir)
	}
	if data.DefaultDataset != DefaultDatasetName {
		t.Errorf("DefaultDataset = %q, want %q", data.DefaultDataset, DefaultDatasetName)
	}
}

func TestLoadData_InvalidData(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MAX_UPLOAD_BYTES", "0")

	if _, err := LoadData(); err == nil {
		t.Fatal("expected error for zero MAX_UPLOAD_BYTES")
	}
}
