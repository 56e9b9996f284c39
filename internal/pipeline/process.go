// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package pipeline

import (
	"sort"

	"github.com/tomtom215/flumap/internal/models"
)

// Result is the processed form of a dataset.
type Result struct {
	models.CaseSet

	// Chart holds per-period counts in chronological order.
	Chart []models.ChartPoint

	// Periods is the ordered, de-duplicated list of period labels.
	Periods []string
}

// Process converts raw rows into cases bucketed by mode. Rows whose timestamp
// cannot be parsed are dropped and counted in Skipped. Cases are sorted by
// calendar date; rows on the same date keep their file order.
func Process(records []models.BirdRecord, mode models.ViewMode) Result {
	cases := make([]models.CaseRecord, 0, len(records))
	skipped := 0

	for i := range records {
		r := &records[i]
		t, err := ParseTimestamp(r.Timestamp)
		if err != nil {
			skipped++
			continue
		}
		cases = append(cases, models.CaseRecord{
			Latitude:   r.Latitude,
			Longitude:  r.Longitude,
			Period:     PeriodLabel(t, mode),
			RawDate:    t.Format(rawDateLayout),
			FluType:    DetermineFluType(r),
			Species:    r.Species,
			Provenance: r.Provenance,
		})
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].RawDate < cases[j].RawDate
	})

	res := Result{
		CaseSet: models.CaseSet{
			Cases:   cases,
			Skipped: skipped,
		},
	}
	if len(cases) > 0 {
		res.FirstDate = cases[0].RawDate
		res.LastDate = cases[len(cases)-1].RawDate
	}

	res.Chart = Aggregate(cases)
	SortPoints(res.Chart, mode)
	res.Periods = Timeline(cases, mode)
	return res
}

// Aggregate counts cases per period. Points are returned in the order their
// period was first seen; use SortPoints for chronological order.
func Aggregate(cases []models.CaseRecord) []models.ChartPoint {
	index := make(map[string]int)
	points := make([]models.ChartPoint, 0)

	for i := range cases {
		c := &cases[i]
		pos, ok := index[c.Period]
		if !ok {
			pos = len(points)
			index[c.Period] = pos
			points = append(points, models.ChartPoint{Period: c.Period})
		}
		points[pos].Add(c.FluType)
	}
	return points
}

// Timeline returns the distinct periods of cases in chronological order.
// It is the range a playback slider moves through.
func Timeline(cases []models.CaseRecord, mode models.ViewMode) []string {
	seen := make(map[string]struct{})
	periods := make([]string, 0)
	for i := range cases {
		p := cases[i].Period
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		periods = append(periods, p)
	}
	SortPeriods(periods, mode)
	return periods
}

// FilterByYear keeps rows whose timestamp falls in the given calendar year.
// Rows with unparseable timestamps are dropped.
func FilterByYear(records []models.BirdRecord, year int) []models.BirdRecord {
	out := make([]models.BirdRecord, 0, len(records))
	for i := range records {
		t, err := ParseTimestamp(records[i].Timestamp)
		if err != nil || t.Year() != year {
			continue
		}
		out = append(out, records[i])
	}
	return out
}

// Summarize describes a dataset: record counts, date range, periods and flu totals.
func Summarize(name string, records []models.BirdRecord, mode models.ViewMode) models.DatasetSummary {
	res := Process(records, mode)

	totals := models.ChartPoint{}
	for i := range res.Cases {
		totals.Add(res.Cases[i].FluType)
	}

	return models.DatasetSummary{
		Name:      name,
		ViewMode:  mode,
		Records:   len(res.Cases),
		Skipped:   res.Skipped,
		FirstDate: res.FirstDate,
		LastDate:  res.LastDate,
		Periods:   res.Periods,
		Species:   len(SpeciesOptions(res.Cases)),
		FluCounts: totals,
	}
}
