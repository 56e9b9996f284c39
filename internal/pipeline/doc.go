// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

/*
Package pipeline turns raw dataset rows into what the dashboard renders.

The stages, in order:

 1. Process: parse each BirdRecord timestamp, derive its FluType and its
    period label (season or month), then sort cases by calendar date.
 2. Aggregate: count cases per period and flu type for the chart.
 3. SortPeriods / SortPoints: order period labels by year, then by season
    (Spring, Summer, Autumn, Winter) or by month.
 4. FilterMap / FilterChart: narrow cases to one map's selection, or to the
    union of every map's selection for the shared chart.

Period labels look like "2023 - Winter" or "2023 - February". Winter spans
December to February and is labelled with the year its December falls in, so
January 2024 belongs to "2023 - Winter".

All functions are pure and safe for concurrent use. Nothing is cached: every
call works on the records it is given.
*/
package pipeline
