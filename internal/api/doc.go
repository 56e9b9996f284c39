// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

/*
Package api provides the FluMap REST surface on a Chi router.

Handlers are split across files:
  - handlers.go: Handler struct and constructor
  - handlers_helpers.go: response envelope, query parsing, validation
  - handlers_health.go: liveness, readiness and health
  - handlers_auth.go: login and logout
  - handlers_cases.go: raw data, cases, chart, map, options, timeline
  - handlers_datasets.go: dataset listing, summary, upload and delete

Every response uses the models.APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "request_id": "...", "query_time_ms": 3}
	}

Dataset endpoints read the CSV file on every request. Nothing is cached
between requests.

Legacy paths (/api/data, /api/files, /api/upload, /api/login) are routed to
the same handlers as their /api/v1 counterparts.
*/
package api
