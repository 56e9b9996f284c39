// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

// Package middleware provides http.HandlerFunc middleware shared by the API
// router: Prometheus request metrics, structured access logging and gzip
// compression. The api package adapts them to chi with chiMiddleware.
package middleware
