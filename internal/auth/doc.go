// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

/*
Package auth provides login, JWT sessions and authentication middleware.

Key Components:

  - UserStore: reads username,password[,role] rows from the users CSV file on
    every login. Password cells starting with $2a$, $2b$ or $2y$ are bcrypt
    hashes; anything else is compared as plaintext in constant time.
  - JWTManager: HS256 token generation and validation.
  - LockoutManager: per-username failed attempt tracking. After MaxAttempts
    failures the account is locked for LockoutDuration.
  - Authenticator: ties the three together behind Login.
  - Middleware: Authenticate (Bearer header or "token" cookie) and RequireRole.
  - UploadLimiter: per-user token bucket for dataset uploads.

Authentication Modes:

	jwt   tokens required for upload and delete (default)
	none  every request runs as an anonymous admin; development only

Usage:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	users := auth.NewUserStore(cfg.Security.UsersFile)
	lockout := auth.NewLockoutManager(auth.NewMemoryLockoutStore(), &auth.LockoutConfig{
	    MaxAttempts:     cfg.Security.LockoutMaxAttempts,
	    LockoutDuration: cfg.Security.LockoutDuration,
	    Enabled:         true,
	})
	authenticator := auth.NewAuthenticator(users, lockout, jwtManager)

	result, err := authenticator.Login(ctx, "admin", "secret")
*/
package auth
