// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package models

import "fmt"

// FluType identifies the influenza subtype of a case.
type FluType string

// Known flu types. Unknown is used when no indicator column is set.
const (
	FluH5N1    FluType = "H5N1"
	FluH5N2    FluType = "H5N2"
	FluH7N2    FluType = "H7N2"
	FluH7N8    FluType = "H7N8"
	FluUnknown FluType = "Unknown"
)

// FluTypes lists every flu type in display order.
var FluTypes = []FluType{FluH5N1, FluH5N2, FluH7N2, FluH7N8, FluUnknown}

var fluColors = map[FluType]string{
	FluH5N1:    "#ff0000",
	FluH5N2:    "#0000ff",
	FluH7N2:    "#008000",
	FluH7N8:    "#800080",
	FluUnknown: "#808080",
}

// Color returns the marker color for the flu type.
func (f FluType) Color() string {
	if c, ok := fluColors[f]; ok {
		return c
	}
	return fluColors[FluUnknown]
}

// Valid reports whether f is one of FluTypes.
func (f FluType) Valid() bool {
	_, ok := fluColors[f]
	return ok
}

// FluColors returns a copy of the flu type to color mapping.
func FluColors() map[FluType]string {
	out := make(map[FluType]string, len(fluColors))
	for k, v := range fluColors {
		out[k] = v
	}
	return out
}

// ViewMode selects how case dates are bucketed into periods.
type ViewMode string

// View modes.
const (
	ViewSeasons ViewMode = "seasons"
	ViewMonths  ViewMode = "months"
)

// ParseViewMode parses a view mode query value. Empty means seasons.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case "", ViewSeasons:
		return ViewSeasons, nil
	case ViewMonths:
		return ViewMonths, nil
	default:
		return "", fmt.Errorf("invalid view mode %q: must be seasons or months", s)
	}
}

// Season is a meteorological season.
type Season string

// Seasons.
const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Autumn Season = "Autumn"
	Winter Season = "Winter"
)

// SeasonOrder is the order periods sort in within a year.
var SeasonOrder = []Season{Spring, Summer, Autumn, Winter}

// AllValues is the filter value that matches every record.
const AllValues = "All"
