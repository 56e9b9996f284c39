// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

// Package services adapts FluMap components to suture.Service: the HTTP
// server, the data directory watcher and the staged-upload janitor.
package services
