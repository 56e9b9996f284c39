// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package pipeline

import (
	"sort"

	"github.com/tomtom215/flumap/internal/models"
)

// matches reports whether a filter value selects v. Empty and "All" select everything.
func matches(filter, v string) bool {
	return filter == "" || filter == models.AllValues || filter == v
}

// FilterMap returns the cases one map shows: those in the filter's period
// that also match its flu type, species and provenance.
func FilterMap(cases []models.CaseRecord, f models.MapFilter) []models.CaseRecord {
	out := make([]models.CaseRecord, 0)
	for i := range cases {
		c := &cases[i]
		if matches(f.Period, c.Period) &&
			matches(f.FluType, string(c.FluType)) &&
			matches(f.Species, c.Species) &&
			matches(f.Provenance, c.Provenance) {
			out = append(out, *c)
		}
	}
	return out
}

// FilterChart returns the cases the shared chart counts when several maps are
// shown. A case is kept when, for each of flu type, species and provenance,
// at least one filter selects it. Periods are ignored. With no filters every
// case is kept.
func FilterChart(cases []models.CaseRecord, filters ...models.MapFilter) []models.CaseRecord {
	if len(filters) == 0 {
		out := make([]models.CaseRecord, len(cases))
		copy(out, cases)
		return out
	}

	out := make([]models.CaseRecord, 0)
	for i := range cases {
		c := &cases[i]
		if anyMatch(filters, func(f models.MapFilter) bool { return matches(f.FluType, string(c.FluType)) }) &&
			anyMatch(filters, func(f models.MapFilter) bool { return matches(f.Species, c.Species) }) &&
			anyMatch(filters, func(f models.MapFilter) bool { return matches(f.Provenance, c.Provenance) }) {
			out = append(out, *c)
		}
	}
	return out
}

func anyMatch(filters []models.MapFilter, pred func(models.MapFilter) bool) bool {
	for _, f := range filters {
		if pred(f) {
			return true
		}
	}
	return false
}

// SpeciesOptions returns the distinct species of cases, sorted.
func SpeciesOptions(cases []models.CaseRecord) []string {
	return uniqueSorted(cases, func(c *models.CaseRecord) string { return c.Species })
}

// ProvenanceOptions returns the distinct provenances of cases, sorted.
func ProvenanceOptions(cases []models.CaseRecord) []string {
	return uniqueSorted(cases, func(c *models.CaseRecord) string { return c.Provenance })
}

func uniqueSorted(cases []models.CaseRecord, key func(*models.CaseRecord) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range cases {
		v := key(&cases[i])
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Options collects every value a client can offer in its filter controls.
func Options(cases []models.CaseRecord) models.FilterOptions {
	fluTypes := make([]models.FluType, len(models.FluTypes))
	copy(fluTypes, models.FluTypes)
	return models.FilterOptions{
		FluTypes:   fluTypes,
		Species:    SpeciesOptions(cases),
		Provenance: ProvenanceOptions(cases),
		Colors:     models.FluColors(),
	}
}
