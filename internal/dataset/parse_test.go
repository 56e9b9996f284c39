// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/flumap/internal/models"
)

const testHeader = "latitude,longitude,species,H5N1,H5N2,H7N2,H7N8,timestamp,provenance\n"

func TestParse(t *testing.T) {
	input := testHeader +
		"46.95,7.45,Mute Swan,1.0,0,0,0,2023-01-15,Wild\n" +
		"47.37,8.54,Mallard,0,abc,1.0,0,2023-04-02 10:30:00,Domestic\n" +
		"46.2,6.1,Heron\n" +
		"46.5,6.6, Grey Goose ,0,0,0,0,2023-07-01, Wild \n"

	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []models.BirdRecord{
		{Latitude: 46.95, Longitude: 7.45, Species: "Mute Swan", H5N1: 1, Timestamp: "2023-01-15", Provenance: "Wild"},
		{Latitude: 47.37, Longitude: 8.54, Species: "Mallard", H7N2: 1, Timestamp: "2023-04-02 10:30:00", Provenance: "Domestic"},
		{Latitude: 46.5, Longitude: 6.6, Species: "Grey Goose", Timestamp: "2023-07-01", Provenance: "Wild"},
	}
	if diff := cmp.Diff(want, got.Records); diff != "" {
		t.Errorf("Parse() records mismatch (-want +got):\n%s", diff)
	}
	if got.Malformed != 1 {
		t.Errorf("Malformed = %d, want 1", got.Malformed)
	}
	if len(got.Header) != 9 || got.Header[0] != "latitude" {
		t.Errorf("Header = %v", got.Header)
	}
}

func TestParse_Empty(t *testing.T) {
	got, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got.Records) != 0 || got.Malformed != 0 {
		t.Errorf("Parse(\"\") = %+v, want empty", got)
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	got, err := Parse(strings.NewReader(testHeader))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got.Records) != 0 {
		t.Errorf("records = %d, want 0", len(got.Records))
	}
}

func TestParse_ByteOrderMark(t *testing.T) {
	got, err := Parse(strings.NewReader("\ufeff" + testHeader))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Header[0] != "latitude" {
		t.Errorf("Header[0] = %q, want latitude", got.Header[0])
	}
}

func TestCheckHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		wantErr bool
	}{
		{"exact", Columns, false},
		{"extra column", append(append([]string{}, Columns...), "notes"), false},
		{"short", []string{"lat", "lon", "species"}, true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckHeader(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckHeader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidHeader) {
				t.Errorf("error %v is not ErrInvalidHeader", err)
			}
		})
	}
}
