// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/flumap/internal/api"
	"github.com/tomtom215/flumap/internal/auth"
	"github.com/tomtom215/flumap/internal/authz"
	"github.com/tomtom215/flumap/internal/config"
	"github.com/tomtom215/flumap/internal/dataset"
	"github.com/tomtom215/flumap/internal/logging"
	"github.com/tomtom215/flumap/internal/metrics"
	"github.com/tomtom215/flumap/internal/supervisor"
	"github.com/tomtom215/flumap/internal/supervisor/services"
)

const shutdownTimeout = 10 * time.Second

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("data_dir", cfg.Data.Dir).
		Str("default_dataset", cfg.Data.DefaultDataset).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("environment", cfg.Server.Environment).
		Msg("Starting FluMap with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := dataset.NewStore(ctx, cfg.Data)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize dataset store")
	}
	if names, err := store.List(ctx); err != nil {
		logging.Warn().Err(err).Msg("Data directory is not readable yet")
	} else {
		metrics.SetDatasetsAvailable(len(names))
		logging.Info().Int("datasets", len(names)).Msg("Dataset store initialized")
	}

	var (
		jwtManager    *auth.JWTManager
		authenticator *auth.Authenticator
		lockout       *auth.LockoutManager
	)

	switch cfg.Security.AuthMode {
	case auth.AuthModeJWT:
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		lockout = auth.NewLockoutManager(auth.NewMemoryLockoutStore(), &auth.LockoutConfig{
			MaxAttempts:     cfg.Security.LockoutMaxAttempts,
			LockoutDuration: cfg.Security.LockoutDuration,
			Enabled:         true,
		})
		users := auth.NewUserStore(cfg.Security.UsersFile)
		authenticator = auth.NewAuthenticator(users, lockout, jwtManager)
		logging.Info().Str("users_file", users.Path()).Msg("JWT authentication enabled")
	case auth.AuthModeNone:
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  Anyone can upload and delete datasets!")
		logging.Warn().Msg("  Use this mode only for local development.")
		logging.Warn().Msg("============================================================")
	}

	authMW := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode, cfg.Security.SecureCookies)

	enforcer, err := authz.NewEnforcer(&authz.EnforcerConfig{
		PolicyPath:     cfg.Security.PolicyPath,
		ReloadInterval: time.Minute,
		DefaultRole:    auth.RoleViewer,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization")
	}
	defer enforcer.Close()

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: CORS is configured with wildcard origin (CORS_ORIGINS=*)")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  Credentialed cross-origin requests are disabled in this mode.")
		logging.Warn().Msg("  RECOMMENDED: Set specific origins in production:")
		logging.Warn().Msg("    CORS_ORIGINS=https://yourdomain.com")
		logging.Warn().Msg("============================================================")
	}

	chiMw := api.NewChiMiddlewareFromConfig(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)

	handler := api.NewHandler(cfg, store, authenticator, authMW)
	router := api.NewRouter(handler, authMW, authz.NewMiddleware(enforcer), chiMw)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if dir, ok := store.LocalDir(); ok && cfg.Data.Watch {
		tree.AddDataService(services.NewDatasetWatcher(dir, store, 0))
		logging.Info().Str("dir", dir).Msg("Dataset watcher added to supervisor tree")
	}
	tree.AddDataService(services.NewUploadJanitor(store, cfg.Data.JanitorInterval, cfg.Data.UploadTempMaxAge))

	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))
	if lockout != nil {
		tree.AddAPIService(lockout)
	}
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().
		Strs("data_layer", tree.Services(supervisor.LayerData)).
		Strs("api_layer", tree.Services(supervisor.LayerAPI)).
		Msg("Starting supervisor tree...")
	if err := tree.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}
	// Restore default signal handling so a second signal terminates immediately.
	stop()
	logging.Info().Msg("Supervisor tree stopped")

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("FluMap stopped gracefully")
}
