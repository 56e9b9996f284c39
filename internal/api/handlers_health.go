// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/flumap/internal/models"
)

// Health reports overall status. It is degraded, not failed, when the data
// directory cannot be listed so that monitors can tell the two apart.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	names, err := h.store.List(r.Context())
	reachable := err == nil

	status := "healthy"
	if !reachable {
		status = "degraded"
	}

	respondSuccess(w, r, http.StatusOK, models.HealthStatus{
		Status:        status,
		Version:       Version,
		DataReachable: reachable,
		Datasets:      len(names),
		AuthMode:      h.authMW.AuthMode(),
		Uptime:        time.Since(h.startTime).Seconds(),
	}, start)
}

// HealthLive answers as long as the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "alive"}, time.Time{})
}

// HealthReady is OK when the data directory is reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Data directory is not reachable", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "ready"}, time.Time{})
}
