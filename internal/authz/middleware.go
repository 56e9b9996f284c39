// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package authz

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/flumap/internal/auth"
	"github.com/tomtom215/flumap/internal/logging"
	"github.com/tomtom215/flumap/internal/metrics"
	"github.com/tomtom215/flumap/internal/models"
)

// Middleware provides authorization middleware using Casbin.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize enforces the policy for a fixed object and action. It must run
// after auth.Middleware.Authenticate.
func (m *Middleware) Authorize(object, action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.check(w, r, object, action) {
			next(w, r)
		}
	}
}

// AuthorizeRequest derives the action from the HTTP method and uses the
// request path as the object.
func (m *Middleware) AuthorizeRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.check(w, r, r.URL.Path, methodToAction(r.Method)) {
			next(w, r)
		}
	}
}

func (m *Middleware) check(w http.ResponseWriter, r *http.Request, object, action string) bool {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeForbidden(w, "no authentication context")
		return false
	}

	allowed, err := m.enforcer.EnforceWithRoles(claims.Username, []string{claims.Role}, object, action)
	if err != nil {
		logging.Error().Err(err).Msg("Authorization error")
		w.WriteHeader(http.StatusInternalServerError)
		return false
	}
	metrics.RecordAuthzDecision(action, allowed)

	if !allowed {
		logging.Ctx(r.Context()).Warn().
			Str("user", claims.Username).
			Str("role", claims.Role).
			Str("object", object).
			Str("action", action).
			Msg("Authorization denied")
		writeForbidden(w, "insufficient permissions")
		return false
	}
	return true
}

// methodToAction maps HTTP methods to Casbin actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return ActionWrite
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}

func writeForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	resp := &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: "FORBIDDEN", Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Error encoding forbidden response")
	}
}
