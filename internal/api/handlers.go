// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package api

import (
	"time"

	"github.com/tomtom215/flumap/internal/auth"
	"github.com/tomtom215/flumap/internal/config"
	"github.com/tomtom215/flumap/internal/dataset"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// Handler contains dependencies for API handlers.
type Handler struct {
	store         *dataset.Store
	authenticator *auth.Authenticator
	authMW        *auth.Middleware
	uploads       *auth.UploadLimiter
	config        *config.Config
	startTime     time.Time
}

// NewHandler creates a new API handler.
//
// authenticator may be nil when auth_mode is none; login then answers 403.
//
//	handler := api.NewHandler(cfg, store, authenticator, authMW)
//	router := api.NewRouter(handler, authMW, authzMW, chiMw)
func NewHandler(cfg *config.Config, store *dataset.Store, authenticator *auth.Authenticator, authMW *auth.Middleware) *Handler {
	return &Handler{
		store:         store,
		authenticator: authenticator,
		authMW:        authMW,
		uploads:       auth.NewUploadLimiter(cfg.Data.UploadRatePerMinute),
		config:        cfg,
		startTime:     time.Now(),
	}
}
