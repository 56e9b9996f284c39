// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/flumap/internal/models"
)

func TestMonthToSeason(t *testing.T) {
	tests := []struct {
		month      time.Month
		year       int
		wantSeason models.Season
		wantYear   int
	}{
		{time.January, 2023, models.Winter, 2022},
		{time.February, 2023, models.Winter, 2022},
		{time.March, 2023, models.Spring, 2023},
		{time.May, 2023, models.Spring, 2023},
		{time.June, 2023, models.Summer, 2023},
		{time.August, 2023, models.Summer, 2023},
		{time.September, 2023, models.Autumn, 2023},
		{time.November, 2023, models.Autumn, 2023},
		{time.December, 2023, models.Winter, 2023},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			season, year := MonthToSeason(tt.month, tt.year)
			if season != tt.wantSeason || year != tt.wantYear {
				t.Errorf("MonthToSeason(%v, %d) = %s %d, want %s %d",
					tt.month, tt.year, season, year, tt.wantSeason, tt.wantYear)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in       string
		wantDate string
		wantErr  bool
	}{
		{"2023-01-15T10:30:00Z", "2023-01-15", false},
		{"2023-01-15T23:30:00+02:00", "2023-01-15", false},
		{"2023-01-15T10:30:00.123Z", "2023-01-15", false},
		{"2023-01-15T10:30:00", "2023-01-15", false},
		{"2023-01-15 10:30:00", "2023-01-15", false},
		{"2023-01-15", "2023-01-15", false},
		{" 2023-01-15 ", "2023-01-15", false},
		{"2023/01/15", "2023-01-15", false},
		{"", "", true},
		{"15.01.2023", "", true},
		{"not a date", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimestamp) {
					t.Fatalf("ParseTimestamp(%q) error = %v, want ErrInvalidTimestamp", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) unexpected error = %v", tt.in, err)
			}
			if d := got.Format(rawDateLayout); d != tt.wantDate {
				t.Errorf("ParseTimestamp(%q) date = %s, want %s", tt.in, d, tt.wantDate)
			}
		})
	}
}

func TestPeriodLabel(t *testing.T) {
	jan := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	jul := time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		mode models.ViewMode
		want string
	}{
		{"january season", jan, models.ViewSeasons, "2023 - Winter"},
		{"january month", jan, models.ViewMonths, "2024 - January"},
		{"july season", jul, models.ViewSeasons, "2024 - Summer"},
		{"july month", jul, models.ViewMonths, "2024 - July"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeriodLabel(tt.t, tt.mode); got != tt.want {
				t.Errorf("PeriodLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortPeriods_Seasons(t *testing.T) {
	labels := []string{
		"2023 - Winter",
		"2022 - Autumn",
		"2023 - Spring",
		"garbage",
		"2022 - Winter",
		"2023 - Summer",
		"2023 - Autumn",
	}
	want := []string{
		"2022 - Autumn",
		"2022 - Winter",
		"2023 - Spring",
		"2023 - Summer",
		"2023 - Autumn",
		"2023 - Winter",
		"garbage",
	}

	SortPeriods(labels, models.ViewSeasons)

	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("SortPeriods() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortPeriods_Months(t *testing.T) {
	labels := []string{
		"2023 - December",
		"2023 - February",
		"2022 - November",
		"2023 - January",
		"2023 - October",
	}
	want := []string{
		"2022 - November",
		"2023 - January",
		"2023 - February",
		"2023 - October",
		"2023 - December",
	}

	SortPeriods(labels, models.ViewMonths)

	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("SortPeriods() mismatch (-want +got):\n%s", diff)
	}
}

func TestComparePeriods_NumericYear(t *testing.T) {
	// 999 must sort before 2000 even though it is lexically greater.
	if ComparePeriods("999 - Spring", "2000 - Spring", models.ViewSeasons) >= 0 {
		t.Error("years must compare numerically")
	}
	if ComparePeriods("2000 - Spring", "2000 - Spring", models.ViewSeasons) != 0 {
		t.Error("equal labels must compare equal")
	}
}
