// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tomtom215/flumap/internal/models"
)

// Columns is the expected column order of a dataset file.
var Columns = []string{
	"latitude", "longitude", "species",
	"H5N1", "H5N2", "H7N2", "H7N8",
	"timestamp", "provenance",
}

const (
	colLatitude = iota
	colLongitude
	colSpecies
	colH5N1
	colH5N2
	colH7N2
	colH7N8
	colTimestamp
	colProvenance
	columnCount
)

// ParseResult is the outcome of parsing one dataset file.
type ParseResult struct {
	Header    []string
	Records   []models.BirdRecord
	Malformed int
}

// Parse reads a whole dataset from r.
//
// An empty input yields an empty result. Rows the CSV reader rejects are
// counted as malformed and parsing continues with the next row.
func Parse(r io.Reader) (*ParseResult, error) {
	reader := newCSVReader(r)
	result := &ParseResult{}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	result.Header = normalizeHeader(header)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Malformed++
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) < columnCount {
			result.Malformed++
			continue
		}
		result.Records = append(result.Records, toRecord(row))
	}

	return result, nil
}

// CheckHeader verifies that a header row carries the nine dataset columns.
func CheckHeader(header []string) error {
	if len(header) < columnCount {
		return fmt.Errorf("%w: got %d columns, want %d (%s)",
			ErrInvalidHeader, len(header), columnCount, strings.Join(Columns, ","))
	}
	return nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false
	return reader
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func toRecord(row []string) models.BirdRecord {
	return models.BirdRecord{
		Latitude:   parseFloat(row[colLatitude]),
		Longitude:  parseFloat(row[colLongitude]),
		Species:    strings.TrimSpace(row[colSpecies]),
		H5N1:       parseFloat(row[colH5N1]),
		H5N2:       parseFloat(row[colH5N2]),
		H7N2:       parseFloat(row[colH7N2]),
		H7N8:       parseFloat(row[colH7N8]),
		Timestamp:  strings.TrimSpace(row[colTimestamp]),
		Provenance: strings.TrimSpace(row[colProvenance]),
	}
}

// parseFloat returns 0 for cells that are not numbers.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
