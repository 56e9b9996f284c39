// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/flumap/internal/dataset"
	"github.com/tomtom215/flumap/internal/models"
)

func registerCustomValidators(v *validator.Validate) {
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("dataset_name", validateDatasetName)
	_ = v.RegisterValidation("view_mode", validateViewMode)
	_ = v.RegisterValidation("flu_filter", validateFluFilter)
}

func validateDatasetName(fl validator.FieldLevel) bool {
	return dataset.ValidReference(fl.Field().String())
}

func validateViewMode(fl validator.FieldLevel) bool {
	_, err := models.ParseViewMode(fl.Field().String())
	return err == nil
}

// validateFluFilter accepts the "All" wildcard or a known flu type.
func validateFluFilter(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" || value == models.AllValues {
		return true
	}
	return models.FluType(value).Valid()
}
