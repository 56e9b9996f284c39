// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/flumap/internal/models"
)

// periodSeparator joins the year and the season or month in a period label.
const periodSeparator = " - "

// rawDateLayout is the calendar date format used for sorting and first/last dates.
const rawDateLayout = "2006-01-02"

// ErrInvalidTimestamp is returned when a timestamp matches none of the accepted layouts.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006/01/02 15:04:05",
}

// ParseTimestamp parses a dataset timestamp. The calendar date is taken as
// written; offsets are not converted to UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// MonthToSeason maps a month (1-12) to its season and the year the season is
// labelled with. January and February belong to the previous year's winter.
func MonthToSeason(month time.Month, year int) (models.Season, int) {
	switch month {
	case time.December:
		return models.Winter, year
	case time.January, time.February:
		return models.Winter, year - 1
	case time.March, time.April, time.May:
		return models.Spring, year
	case time.June, time.July, time.August:
		return models.Summer, year
	default:
		return models.Autumn, year
	}
}

// PeriodLabel formats t as "<seasonYear> - <Season>" or "<year> - <Month>".
func PeriodLabel(t time.Time, mode models.ViewMode) string {
	if mode == models.ViewMonths {
		return strconv.Itoa(t.Year()) + periodSeparator + t.Month().String()
	}
	season, seasonYear := MonthToSeason(t.Month(), t.Year())
	return strconv.Itoa(seasonYear) + periodSeparator + string(season)
}

// splitPeriod returns the year and the season or month name of a label.
// ok is false when the year is not a number.
func splitPeriod(label string) (year int, name string, ok bool) {
	y, n, found := strings.Cut(label, periodSeparator)
	if !found {
		return 0, "", false
	}
	year, err := strconv.Atoi(strings.TrimSpace(y))
	if err != nil {
		return 0, n, false
	}
	return year, strings.TrimSpace(n), true
}

// periodRank orders season or month names within a year. Unknown names rank last.
func periodRank(name string, mode models.ViewMode) int {
	if mode == models.ViewMonths {
		for m := time.January; m <= time.December; m++ {
			if m.String() == name {
				return int(m)
			}
		}
		return 13
	}
	for i, s := range models.SeasonOrder {
		if string(s) == name {
			return i
		}
	}
	return len(models.SeasonOrder)
}

// ComparePeriods orders two labels by year, then by season order or month.
// Labels without a numeric year sort after all others.
func ComparePeriods(a, b string, mode models.ViewMode) int {
	yearA, nameA, okA := splitPeriod(a)
	yearB, nameB, okB := splitPeriod(b)

	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case !okA && !okB:
		return strings.Compare(a, b)
	}

	if yearA != yearB {
		if yearA < yearB {
			return -1
		}
		return 1
	}

	rankA, rankB := periodRank(nameA, mode), periodRank(nameB, mode)
	if rankA != rankB {
		if rankA < rankB {
			return -1
		}
		return 1
	}
	return strings.Compare(nameA, nameB)
}

// SortPeriods sorts labels in place in chronological order.
func SortPeriods(labels []string, mode models.ViewMode) {
	sort.SliceStable(labels, func(i, j int) bool {
		return ComparePeriods(labels[i], labels[j], mode) < 0
	})
}

// SortPoints sorts chart points in place in chronological order.
func SortPoints(points []models.ChartPoint, mode models.ViewMode) {
	sort.SliceStable(points, func(i, j int) bool {
		return ComparePeriods(points[i].Period, points[j].Period, mode) < 0
	})
}
