// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package pipeline

import "github.com/tomtom215/flumap/internal/models"

// Advance returns the playback index after index, wrapping to 0 at the end.
func Advance(index, length int) int {
	if length <= 0 {
		return 0
	}
	return (index + 1) % length
}

// Reset returns the first playback index.
func Reset() int {
	return 0
}

// BuildTimeline positions playback at index within periods. An index outside
// the range is reset. Past holds every period up to and including the current
// one, for shading the chart.
func BuildTimeline(periods []string, mode models.ViewMode, index int) models.Timeline {
	if index < 0 || index >= len(periods) {
		index = Reset()
	}

	tl := models.Timeline{
		ViewMode: mode,
		Periods:  periods,
		Index:    index,
		Next:     Advance(index, len(periods)),
		Past:     []string{},
	}
	if len(periods) > 0 {
		tl.Current = periods[index]
		tl.Past = append(tl.Past, periods[:index+1]...)
	}
	return tl
}
