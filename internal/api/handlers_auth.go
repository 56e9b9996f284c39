// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/flumap/internal/auth"
	"github.com/tomtom215/flumap/internal/logging"
	"github.com/tomtom215/flumap/internal/metrics"
	"github.com/tomtom215/flumap/internal/models"
)

const maxLoginBodyBytes = 64 << 10

// Login authenticates against the users file and issues a JWT.
//
// The token is returned in the body and set as an HttpOnly cookie. Repeated
// failures lock the username; a locked account answers 429 with Retry-After.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.authenticator == nil || h.authMW.AuthMode() == auth.AuthModeNone {
		respondError(w, r, http.StatusForbidden, "AUTH_DISABLED", "Authentication is disabled", nil)
		return
	}

	req, ok := h.parseLoginRequest(w, r)
	if !ok {
		return
	}

	result, err := h.authenticator.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondLoginError(w, r, req.Username, err)
		return
	}

	metrics.RecordLoginAttempt("success")
	logging.Ctx(r.Context()).Info().
		Str("username", sanitizeLogValue(result.User.Username)).
		Str("role", result.User.Role).
		Msg("Login succeeded")

	h.authMW.SetTokenCookie(w, result.Token, result.ExpiresAt)
	respondSuccess(w, r, http.StatusOK, models.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Username:  result.User.Username,
		Role:      result.User.Role,
		Message:   "Login successful",
	}, start)
}

func (h *Handler) parseLoginRequest(w http.ResponseWriter, r *http.Request) (*models.LoginRequest, bool) {
	var req models.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return nil, false
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return nil, false
	}
	return &req, true
}

func (h *Handler) respondLoginError(w http.ResponseWriter, r *http.Request, username string, err error) {
	var locked *auth.LockedError
	switch {
	case errors.As(err, &locked):
		metrics.RecordLoginAttempt("locked")
		logging.Ctx(r.Context()).Warn().
			Str("username", sanitizeLogValue(username)).
			Dur("remaining", locked.Remaining).
			Msg("Login rejected for locked account")
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(locked.Remaining)))
		respondError(w, r, http.StatusTooManyRequests, "ACCOUNT_LOCKED", "Too many failed login attempts, try again later", nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		metrics.RecordLoginAttempt("invalid")
		logging.Ctx(r.Context()).Warn().
			Str("username", sanitizeLogValue(username)).
			Msg("Login failed")
		respondError(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	default:
		metrics.RecordLoginAttempt("error")
		respondError(w, r, http.StatusInternalServerError, "LOGIN_FAILED", "Login could not be processed", err)
	}
}

// retryAfterSeconds rounds up so clients never retry early.
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// Logout clears the token cookie. JWTs are stateless, so a copied token stays
// valid until it expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authMW.ClearTokenCookie(w)
	respondSuccess(w, r, http.StatusOK, map[string]string{"message": "Logged out"}, time.Time{})
}
