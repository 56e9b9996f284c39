// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/flumap/internal/logging"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// Authenticator checks credentials, applies lockout and issues tokens.
type Authenticator struct {
	users   *UserStore
	lockout *LockoutManager
	jwt     *JWTManager
}

// NewAuthenticator wires the user store, lockout manager and JWT manager.
func NewAuthenticator(users *UserStore, lockout *LockoutManager, jwtManager *JWTManager) *Authenticator {
	return &Authenticator{
		users:   users,
		lockout: lockout,
		jwt:     jwtManager,
	}
}

// JWT returns the token manager.
func (a *Authenticator) JWT() *JWTManager {
	return a.jwt
}

// Lockout returns the lockout manager.
func (a *Authenticator) Lockout() *LockoutManager {
	return a.lockout
}

// Login authenticates username and password.
//
// It returns a *LockedError (matching ErrAccountLocked) when the account is
// locked, and ErrInvalidCredentials on a bad username or password.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	locked, remaining, err := a.lockout.CheckLocked(ctx, username)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, &LockedError{Remaining: remaining}
	}

	user, err := a.users.Authenticate(ctx, username, password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			return nil, err
		}
		nowLocked, remaining, lockErr := a.lockout.RecordFailedAttempt(ctx, username)
		if lockErr != nil {
			logging.Error().Err(lockErr).Msg("Failed to record login failure")
		}
		if nowLocked {
			return nil, &LockedError{Remaining: remaining}
		}
		return nil, err
	}

	if err := a.lockout.RecordSuccessfulLogin(ctx, username); err != nil {
		logging.Warn().Err(err).Msg("Failed to clear lockout state")
	}

	token, expiresAt, err := a.jwt.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}
