// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/flumap/internal/auth"
	"github.com/tomtom215/flumap/internal/authz"
	"github.com/tomtom215/flumap/internal/config"
	"github.com/tomtom215/flumap/internal/dataset"
	"github.com/tomtom215/flumap/internal/models"
)

const testHeader = "latitude,longitude,species,H5N1,H5N2,H7N2,H7N8,timestamp,provenance\n"

// testDataset yields the periods 2022 - Winter, 2023 - Spring and
// 2024 - Summer in seasons mode, plus one row with an unparseable date.
const testDataset = testHeader +
	"46.95,7.45,Mute Swan,1.0,0,0,0,2023-01-15,Wild\n" +
	"47.37,8.54,Mallard,0,1.0,0,0,2023-04-02,Domestic\n" +
	"46.20,6.10,Heron,0,0,0,0,2023-04-20,Wild\n" +
	"47.00,8.00,Mallard,0,0,1.0,0,2024-07-01,Wild\n" +
	"46.50,7.00,Goose,0,0,0,0,not-a-date,Wild\n"

const (
	testAdminPassword  = "admin-secret"
	testViewerPassword = "viewer-secret"
)

type testEnv struct {
	router  http.Handler
	store   *dataset.Store
	dataDir string
}

func newTestEnv(t *testing.T, authMode string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dataDir, "default.csv"), testDataset)
	writeFile(t, filepath.Join(dataDir, "poultry.csv"), testHeader+"46.0,7.0,Chicken,1.0,0,0,0,2024-02-10,Domestic\n")

	usersPath := filepath.Join(dir, "users.csv")
	writeFile(t, usersPath, "username,password,role\n"+
		"admin,"+testAdminPassword+"\n"+
		"viewer,"+testViewerPassword+",viewer\n")

	cfg := &config.Config{
		Data: config.DataConfig{
			Dir:                 dataDir,
			DefaultDataset:      "default",
			MaxUploadBytes:      2048,
			UploadRatePerMinute: 100,
		},
		Security: config.SecurityConfig{
			AuthMode:          authMode,
			JWTSecret:         strings.Repeat("k", 32),
			SessionTimeout:    time.Hour,
			UsersFile:         usersPath,
			RateLimitDisabled: true,
		},
	}

	store, err := dataset.NewStore(context.Background(), cfg.Data)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	lockout := auth.NewLockoutManager(auth.NewMemoryLockoutStore(), &auth.LockoutConfig{
		MaxAttempts:     3,
		LockoutDuration: time.Minute,
		Enabled:         true,
	})
	authenticator := auth.NewAuthenticator(auth.NewUserStore(usersPath), lockout, jwtManager)
	authMW := auth.NewMiddleware(jwtManager, authMode, false)

	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	t.Cleanup(enforcer.Close)

	handler := NewHandler(cfg, store, authenticator, authMW)
	chiMw := NewChiMiddlewareFromConfig(nil, 0, 0, true)
	router := NewRouter(handler, authMW, authz.NewMiddleware(enforcer), chiMw)

	return &testEnv{
		router:  router.SetupChi(),
		store:   store,
		dataDir: dataDir,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// login returns a bearer token for username.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(loginRequest("/api/v1/auth/login", username, password))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp models.LoginResponse
	decodeData(t, rec, &resp)
	return resp.Token
}

func loginRequest(path, username, password string) *http.Request {
	body, _ := json.Marshal(models.LoginRequest{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// uploadRequest builds a multipart upload of content under field.
func uploadRequest(t *testing.T, path, field, filename, content, token string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v: %s", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if env.Status != "success" {
		t.Fatalf("expected success envelope, got %s: %s", env.Status, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

// expectError asserts status and error code.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d: %s", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope: %s", rec.Body.String())
	}
	if code != "" && env.Error.Code != code {
		t.Errorf("error code = %s, want %s", env.Error.Code, code)
	}
}
