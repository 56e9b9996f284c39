// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/flumap/internal/logging"
	"github.com/tomtom215/flumap/internal/models"
)

type contextKey string

// ClaimsContextKey is the request context key holding *Claims.
const ClaimsContextKey contextKey = "claims"

// TokenCookieName is the cookie carrying the JWT.
const TokenCookieName = "token"

// Auth modes.
const (
	AuthModeJWT  = "jwt"
	AuthModeNone = "none"
)

// anonymousClaims are attached to every request in auth mode none.
var anonymousClaims = &Claims{Username: "anonymous", Role: RoleAdmin}

// Middleware provides authentication middleware and cookie helpers.
type Middleware struct {
	jwtManager    *JWTManager
	authMode      string
	secureCookies bool
}

// NewMiddleware creates authentication middleware. jwtManager may be nil in
// auth mode none.
func NewMiddleware(jwtManager *JWTManager, authMode string, secureCookies bool) *Middleware {
	if authMode == "" {
		authMode = AuthModeJWT
	}
	return &Middleware{
		jwtManager:    jwtManager,
		authMode:      authMode,
		secureCookies: secureCookies,
	}
}

// AuthMode returns the configured mode.
func (m *Middleware) AuthMode() string {
	return m.authMode
}

// Authenticate is middleware that enforces authentication
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == AuthModeNone {
			next(w, r.WithContext(ContextWithClaims(r.Context(), anonymousClaims)))
			return
		}

		token, err := extractToken(r)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Debug().Err(err).Msg("Token validation failed")
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		next(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	}
}

// extractToken reads the Bearer header, falling back to the token cookie.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil || cookie.Value == "" {
			return "", fmt.Errorf("missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}

// RequireRole is middleware that enforces a specific role. Admins pass
// every role check.
func (m *Middleware) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "invalid claims")
			return
		}

		if claims.Role != role && claims.Role != RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
			return
		}

		next(w, r)
	})
}

// SetTokenCookie stores the JWT in an HttpOnly, SameSite=Strict cookie.
func (m *Middleware) SetTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearTokenCookie expires the auth cookie.
func (m *Middleware) ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// ContextWithClaims returns a context carrying claims. The username is also
// attached to request-scoped log lines.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	if claims != nil && claims.Username != "" {
		ctx = logging.ContextWithUser(ctx, claims.Username)
	}
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="flumap"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Error encoding auth error response")
	}
}
