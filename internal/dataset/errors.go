// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package dataset

import "errors"

var (
	// ErrDatasetNotFound is returned when a name does not resolve to a dataset.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrDatasetExists is returned when an upload would overwrite a dataset.
	ErrDatasetExists = errors.New("dataset already exists")

	// ErrNotCSV is returned for uploads without a .csv extension.
	ErrNotCSV = errors.New("only .csv files are accepted")

	// ErrInvalidName is returned for names that are not plain base names.
	ErrInvalidName = errors.New("invalid dataset name")

	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("dataset exceeds upload size limit")

	// ErrInvalidHeader is returned when the header row has fewer than nine columns.
	ErrInvalidHeader = errors.New("invalid dataset header")

	// ErrProtectedDataset is returned when deleting the default dataset.
	ErrProtectedDataset = errors.New("default dataset cannot be deleted")
)
