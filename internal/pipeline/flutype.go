// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package pipeline

import "github.com/tomtom215/flumap/internal/models"

// DetermineFluType returns the first subtype whose indicator is exactly 1.0,
// checked in the order H5N1, H5N2, H7N2, H7N8, or Unknown if none is set.
func DetermineFluType(r *models.BirdRecord) models.FluType {
	switch {
	case r.H5N1 == 1.0:
		return models.FluH5N1
	case r.H5N2 == 1.0:
		return models.FluH5N2
	case r.H7N2 == 1.0:
		return models.FluH7N2
	case r.H7N8 == 1.0:
		return models.FluH7N8
	default:
		return models.FluUnknown
	}
}
