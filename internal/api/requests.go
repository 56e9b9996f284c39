// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package api

import (
	"net/http"

	"github.com/tomtom215/flumap/internal/models"
)

// DatasetQuery selects a dataset and bucketing mode. Both are optional.
type DatasetQuery struct {
	Database string `query:"database" validate:"omitempty,max=128,dataset_name"`
	View     string `query:"view" validate:"omitempty,view_mode"`
}

func readDatasetQuery(r *http.Request) DatasetQuery {
	q := r.URL.Query()
	return DatasetQuery{
		Database: q.Get("database"),
		View:     q.Get("view"),
	}
}

// Mode returns the parsed view mode. Call after validation.
func (q DatasetQuery) Mode() models.ViewMode {
	mode, err := models.ParseViewMode(q.View)
	if err != nil {
		return models.ViewSeasons
	}
	return mode
}

// DataQuery is the raw data request with an optional calendar year.
type DataQuery struct {
	DatasetQuery
	Year int `query:"year" validate:"omitempty,min=1000,max=9999"`
}

// ChartQuery holds one value per map for each filter dimension. A chart
// combines at most two maps.
type ChartQuery struct {
	DatasetQuery
	FluTypes   []string `query:"flu_type" validate:"max=2,dive,flu_filter"`
	Species    []string `query:"species" validate:"max=2,dive,max=256"`
	Provenance []string `query:"provenance" validate:"max=2,dive,max=256"`
}

// Filters expands the per-dimension values into one MapFilter per map.
// A dimension with fewer values than maps matches everything for the
// remaining maps.
func (q ChartQuery) Filters() []models.MapFilter {
	n := max(len(q.FluTypes), len(q.Species), len(q.Provenance))
	filters := make([]models.MapFilter, 0, n)
	for i := 0; i < n; i++ {
		filters = append(filters, models.MapFilter{
			FluType:    valueAt(q.FluTypes, i),
			Species:    valueAt(q.Species, i),
			Provenance: valueAt(q.Provenance, i),
		})
	}
	return filters
}

// MapQuery is the filter for a single map.
type MapQuery struct {
	DatasetQuery
	Period     string `query:"period" validate:"max=64"`
	FluType    string `query:"flu_type" validate:"flu_filter"`
	Species    string `query:"species" validate:"max=256"`
	Provenance string `query:"provenance" validate:"max=256"`
}

// Filter returns the MapFilter for period.
func (q MapQuery) Filter(period string) models.MapFilter {
	return models.MapFilter{
		Period:     period,
		FluType:    q.FluType,
		Species:    q.Species,
		Provenance: q.Provenance,
	}
}
