// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

/*
Package models defines the data structures shared across FluMap.

Key Components:

  - BirdRecord: one raw row of a case dataset, as stored on disk
  - CaseRecord: a processed case with its flu type and period label
  - ChartPoint: per-period counts for the time-series chart
  - MapFilter: the selection applied to one map view
  - Timeline: the ordered period range that drives playback
  - APIResponse: the envelope returned by every HTTP endpoint

The package has no dependencies on other internal packages so it can be
imported from anywhere without cycles.
*/
package models
