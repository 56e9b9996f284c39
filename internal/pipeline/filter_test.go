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

func filterCases() []models.CaseRecord {
	return []models.CaseRecord{
		{Period: "2023 - Spring", FluType: models.FluH5N1, Species: "Mute swan", Provenance: "Wild"},
		{Period: "2023 - Spring", FluType: models.FluH5N2, Species: "Chicken", Provenance: "Domestic"},
		{Period: "2023 - Summer", FluType: models.FluH5N1, Species: "Chicken", Provenance: "Domestic"},
		{Period: "2023 - Summer", FluType: models.FluUnknown, Species: "Mallard", Provenance: "Wild"},
	}
}

func species(cases []models.CaseRecord) []string {
	out := make([]string, 0, len(cases))
	for _, c := range cases {
		out = append(out, c.Period+"/"+c.Species)
	}
	return out
}

func TestFilterMap(t *testing.T) {
	tests := []struct {
		name   string
		filter models.MapFilter
		want   []string
	}{
		{
			name:   "period only",
			filter: models.MapFilter{Period: "2023 - Spring", FluType: "All", Species: "All", Provenance: "All"},
			want:   []string{"2023 - Spring/Mute swan", "2023 - Spring/Chicken"},
		},
		{
			name:   "empty matches everything",
			filter: models.MapFilter{},
			want: []string{
				"2023 - Spring/Mute swan", "2023 - Spring/Chicken",
				"2023 - Summer/Chicken", "2023 - Summer/Mallard",
			},
		},
		{
			name:   "period and flu type",
			filter: models.MapFilter{Period: "2023 - Summer", FluType: "H5N1"},
			want:   []string{"2023 - Summer/Chicken"},
		},
		{
			name:   "provenance across periods",
			filter: models.MapFilter{Provenance: "Wild"},
			want:   []string{"2023 - Spring/Mute swan", "2023 - Summer/Mallard"},
		},
		{
			name:   "no match",
			filter: models.MapFilter{Period: "2023 - Winter"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := species(FilterMap(filterCases(), tt.filter))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterMap() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterChart(t *testing.T) {
	tests := []struct {
		name    string
		filters []models.MapFilter
		want    []string
	}{
		{
			name: "no filters keeps all",
			want: []string{
				"2023 - Spring/Mute swan", "2023 - Spring/Chicken",
				"2023 - Summer/Chicken", "2023 - Summer/Mallard",
			},
		},
		{
			name:    "single map",
			filters: []models.MapFilter{{FluType: "H5N1", Species: "All", Provenance: "All"}},
			want:    []string{"2023 - Spring/Mute swan", "2023 - Summer/Chicken"},
		},
		{
			name: "union of two maps per dimension",
			filters: []models.MapFilter{
				{FluType: "H5N1", Species: "Mute swan"},
				{FluType: "Unknown", Species: "Mallard"},
			},
			want: []string{"2023 - Spring/Mute swan", "2023 - Summer/Mallard"},
		},
		{
			name: "second map All opens a dimension",
			filters: []models.MapFilter{
				{FluType: "H5N2", Provenance: "Domestic"},
				{FluType: "All", Provenance: "Domestic"},
			},
			want: []string{"2023 - Spring/Chicken", "2023 - Summer/Chicken"},
		},
		{
			name:    "period is ignored",
			filters: []models.MapFilter{{Period: "2023 - Spring", Species: "Mallard"}},
			want:    []string{"2023 - Summer/Mallard"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := species(FilterChart(filterCases(), tt.filters...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterChart() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	opts := Options(filterCases())

	if diff := cmp.Diff([]string{"Chicken", "Mallard", "Mute swan"}, opts.Species); diff != "" {
		t.Errorf("Species mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Domestic", "Wild"}, opts.Provenance); diff != "" {
		t.Errorf("Provenance mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(models.FluTypes, opts.FluTypes); diff != "" {
		t.Errorf("FluTypes mismatch (-want +got):\n%s", diff)
	}
	if opts.Colors[models.FluH7N2] != "#008000" {
		t.Errorf("Colors[H7N2] = %q", opts.Colors[models.FluH7N2])
	}
}

func TestOptions_Empty(t *testing.T) {
	opts := Options(nil)
	if opts.Species == nil || len(opts.Species) != 0 {
		t.Errorf("Species should be empty, non-nil: %#v", opts.Species)
	}
}
