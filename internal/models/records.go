// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package models

// BirdRecord is one row of a case dataset.
//
// Indicator columns hold 1.0 when the subtype was detected. Values that fail
// to parse are stored as 0.
type BirdRecord struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Species    string  `json:"species"`
	H5N1       float64 `json:"H5N1"`
	H5N2       float64 `json:"H5N2"`
	H7N2       float64 `json:"H7N2"`
	H7N8       float64 `json:"H7N8"`
	Timestamp  string  `json:"timestamp"`
	Provenance string  `json:"provenance"`
}

// CaseRecord is a processed case ready for map display.
type CaseRecord struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Period     string  `json:"date"`
	RawDate    string  `json:"raw_date"`
	FluType    FluType `json:"flu_type"`
	Species    string  `json:"species"`
	Provenance string  `json:"provenance"`
}

// ChartPoint holds case counts for one period.
type ChartPoint struct {
	Period  string `json:"date"`
	H5N1    int    `json:"H5N1"`
	H5N2    int    `json:"H5N2"`
	H7N2    int    `json:"H7N2"`
	H7N8    int    `json:"H7N8"`
	Unknown int    `json:"Unknown"`
	Total   int    `json:"total"`
}

// Add counts one case of the given flu type.
func (p *ChartPoint) Add(f FluType) {
	switch f {
	case FluH5N1:
		p.H5N1++
	case FluH5N2:
		p.H5N2++
	case FluH7N2:
		p.H7N2++
	case FluH7N8:
		p.H7N8++
	default:
		p.Unknown++
	}
	p.Total++
}

// MapFilter is the selection for one map view. Empty fields and AllValues
// match every record.
type MapFilter struct {
	Period     string `json:"period,omitempty"`
	FluType    string `json:"flu_type,omitempty"`
	Species    string `json:"species,omitempty"`
	Provenance string `json:"provenance,omitempty"`
}

// DatasetSummary describes a dataset at a glance.
type DatasetSummary struct {
	Name      string     `json:"name"`
	ViewMode  ViewMode   `json:"view"`
	Records   int        `json:"records"`
	Skipped   int        `json:"skipped"`
	FirstDate string     `json:"first_date"`
	LastDate  string     `json:"last_date"`
	Periods   []string   `json:"periods"`
	Species   int        `json:"species"`
	FluCounts ChartPoint `json:"flu_counts"`
}

// Timeline is the playback range for a dataset and the position within it.
type Timeline struct {
	ViewMode ViewMode `json:"view"`
	Periods  []string `json:"periods"`
	Index    int      `json:"index"`
	Current  string   `json:"current"`
	Next     int      `json:"next"`
	Past     []string `json:"past"`
}

// CaseSet is the processed form of a whole dataset.
type CaseSet struct {
	Cases     []CaseRecord `json:"cases"`
	FirstDate string       `json:"first_date"`
	LastDate  string       `json:"last_date"`
	Skipped   int          `json:"skipped"`
}

// FilterOptions are the values a client can offer in its filter controls.
type FilterOptions struct {
	FluTypes   []FluType          `json:"flu_types"`
	Species    []string           `json:"species"`
	Provenance []string           `json:"provenance"`
	Colors     map[FluType]string `json:"colors"`
}
