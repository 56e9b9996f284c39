// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package models

import "time"

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": ["fake_bird_data_switzerland_v2"],
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "..."}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "CONFLICT", "message": "A dataset with the same name already exists"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError describes a failed request.
//
// Common codes: VALIDATION_ERROR, NOT_FOUND, CONFLICT, UNAUTHORIZED, FORBIDDEN,
// PAYLOAD_TOO_LARGE, ACCOUNT_LOCKED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	DataReachable bool    `json:"data_reachable"`
	Datasets      int     `json:"datasets"`
	AuthMode      string  `json:"auth_mode"`
	Uptime        float64 `json:"uptime_seconds"`
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=256"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
}

// UploadResponse is returned after a dataset upload.
type UploadResponse struct {
	Name    string `json:"name"`
	Bytes   int64  `json:"bytes"`
	Message string `json:"message"`
}

// DeleteResponse is returned after a dataset is removed.
type DeleteResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// MapView is the filtered case set for one map at one period.
type MapView struct {
	Period string       `json:"period"`
	Filter MapFilter    `json:"filter"`
	Cases  []CaseRecord `json:"cases"`
	Count  int          `json:"count"`
}
