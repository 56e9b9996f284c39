// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/flumap/internal/models"
)

func rec(ts, species, provenance string, h5n1, h5n2, h7n2, h7n8 float64) models.BirdRecord {
	return models.BirdRecord{
		Latitude:   46.9,
		Longitude:  7.4,
		Species:    species,
		H5N1:       h5n1,
		H5N2:       h5n2,
		H7N2:       h7n2,
		H7N8:       h7n8,
		Timestamp:  ts,
		Provenance: provenance,
	}
}

func sampleRecords() []models.BirdRecord {
	return []models.BirdRecord{
		rec("2023-03-10", "Mute swan", "Wild", 1, 0, 0, 0),
		rec("2022-12-05", "Chicken", "Domestic", 0, 1, 0, 0),
		rec("2023-01-20", "Mute swan", "Wild", 0, 0, 1, 0),
		rec("not-a-date", "Mallard", "Wild", 1, 0, 0, 0),
		rec("2023-07-01", "Mallard", "Wild", 0, 0, 0, 1),
		rec("2023-03-10", "Chicken", "Domestic", 0, 0, 0, 0),
	}
}

func TestDetermineFluType(t *testing.T) {
	tests := []struct {
		name string
		r    models.BirdRecord
		want models.FluType
	}{
		{"h5n1", rec("", "", "", 1, 0, 0, 0), models.FluH5N1},
		{"h5n2", rec("", "", "", 0, 1, 0, 0), models.FluH5N2},
		{"h7n2", rec("", "", "", 0, 0, 1, 0), models.FluH7N2},
		{"h7n8", rec("", "", "", 0, 0, 0, 1), models.FluH7N8},
		{"none", rec("", "", "", 0, 0, 0, 0), models.FluUnknown},
		{"first wins", rec("", "", "", 0, 1, 1, 1), models.FluH5N2},
		{"not exactly one", rec("", "", "", 0.5, 2, 0, 0), models.FluUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineFluType(&tt.r); got != tt.want {
				t.Errorf("DetermineFluType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProcess_Seasons(t *testing.T) {
	res := Process(sampleRecords(), models.ViewSeasons)

	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
	if res.FirstDate != "2022-12-05" || res.LastDate != "2023-07-01" {
		t.Errorf("date range = %s..%s, want 2022-12-05..2023-07-01", res.FirstDate, res.LastDate)
	}

	gotDates := make([]string, 0, len(res.Cases))
	for _, c := range res.Cases {
		gotDates = append(gotDates, c.RawDate+" "+c.Species)
	}
	wantDates := []string{
		"2022-12-05 Chicken",
		"2023-01-20 Mute swan",
		"2023-03-10 Mute swan",
		"2023-03-10 Chicken",
		"2023-07-01 Mallard",
	}
	if diff := cmp.Diff(wantDates, gotDates); diff != "" {
		t.Errorf("case order mismatch (-want +got):\n%s", diff)
	}

	wantChart := []models.ChartPoint{
		{Period: "2022 - Winter", H5N2: 1, H7N2: 1, Total: 2},
		{Period: "2023 - Spring", H5N1: 1, Unknown: 1, Total: 2},
		{Period: "2023 - Summer", H7N8: 1, Total: 1},
	}
	if diff := cmp.Diff(wantChart, res.Chart); diff != "" {
		t.Errorf("chart mismatch (-want +got):\n%s", diff)
	}

	wantPeriods := []string{"2022 - Winter", "2023 - Spring", "2023 - Summer"}
	if diff := cmp.Diff(wantPeriods, res.Periods); diff != "" {
		t.Errorf("periods mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_Months(t *testing.T) {
	res := Process(sampleRecords(), models.ViewMonths)

	want := []string{"2022 - December", "2023 - January", "2023 - March", "2023 - July"}
	if diff := cmp.Diff(want, res.Periods); diff != "" {
		t.Errorf("periods mismatch (-want +got):\n%s", diff)
	}
	if res.Chart[2].Total != 2 {
		t.Errorf("March total = %d, want 2", res.Chart[2].Total)
	}
}

func TestProcess_Empty(t *testing.T) {
	res := Process(nil, models.ViewSeasons)

	if len(res.Cases) != 0 || len(res.Chart) != 0 || len(res.Periods) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
	if res.FirstDate != "" || res.LastDate != "" {
		t.Errorf("expected empty date range, got %q..%q", res.FirstDate, res.LastDate)
	}
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	cases := []models.CaseRecord{
		{Period: "2023 - Summer", FluType: models.FluH5N1},
		{Period: "2022 - Winter", FluType: models.FluUnknown},
		{Period: "2023 - Summer", FluType: models.FluH5N1},
	}

	want := []models.ChartPoint{
		{Period: "2023 - Summer", H5N1: 2, Total: 2},
		{Period: "2022 - Winter", Unknown: 1, Total: 1},
	}
	if diff := cmp.Diff(want, Aggregate(cases)); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterByYear(t *testing.T) {
	got := FilterByYear(sampleRecords(), 2023)
	if len(got) != 4 {
		t.Fatalf("FilterByYear(2023) kept %d rows, want 4", len(got))
	}
	for _, r := range got {
		if r.Timestamp[:4] != "2023" {
			t.Errorf("unexpected row %+v", r)
		}
	}
	if n := len(FilterByYear(sampleRecords(), 1999)); n != 0 {
		t.Errorf("FilterByYear(1999) kept %d rows, want 0", n)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize("switzerland", sampleRecords(), models.ViewSeasons)

	if s.Name != "switzerland" || s.Records != 5 || s.Skipped != 1 {
		t.Errorf("unexpected summary header: %+v", s)
	}
	if s.Species != 3 {
		t.Errorf("Species = %d, want 3", s.Species)
	}
	want := models.ChartPoint{H5N1: 1, H5N2: 1, H7N2: 1, H7N8: 1, Unknown: 1, Total: 5}
	if diff := cmp.Diff(want, s.FluCounts); diff != "" {
		t.Errorf("FluCounts mismatch (-want +got):\n%s", diff)
	}
}
