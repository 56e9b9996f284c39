// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/flumap/internal/dataset"
	"github.com/tomtom215/flumap/internal/logging"
	"github.com/tomtom215/flumap/internal/models"
	"github.com/tomtom215/flumap/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "private, no-cache")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a weak ETag from data using FNV-1a
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `W/"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// metadataFor builds response metadata. A zero start omits the query time.
func metadataFor(r *http.Request, start time.Time) models.Metadata {
	meta := models.Metadata{Timestamp: time.Now()}
	if r != nil {
		meta.RequestID = logging.RequestIDFromContext(r.Context())
	}
	if !start.IsZero() {
		meta.QueryTimeMS = time.Since(start).Milliseconds()
	}
	return meta
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: metadataFor(r, start),
	})
}

// respondError sends an error response. err is logged, never returned to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondAPIError(w, r, status, &models.APIError{Code: code, Message: message}, err)
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Warn()
		if r != nil {
			event = logging.Ctx(r.Context()).Warn()
		}
		if status >= http.StatusInternalServerError {
			event = logging.Error()
			if r != nil {
				event = logging.Ctx(r.Context()).Error()
			}
		}
		event.
			Str("code", sanitizeLogValue(apiErr.Code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: metadataFor(r, time.Time{}),
		Error:    apiErr,
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}

	return intValue
}

// queryValues returns every non-empty value of a repeated query parameter.
func queryValues(r *http.Request, key string) []string {
	var values []string
	for _, raw := range r.URL.Query()[key] {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// splitQueryValues is queryValues with comma-separated values split, so
// flu_type=H5N1,H7N8 equals flu_type=H5N1&flu_type=H7N8. Only use it for
// parameters whose values never contain commas.
func splitQueryValues(r *http.Request, key string) []string {
	var values []string
	for _, raw := range queryValues(r, key) {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
	}
	return values
}

// valueAt returns values[i], or "" (match all) when i is out of range.
func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// datasetErrorStatus maps dataset store errors to HTTP status and error code.
func datasetErrorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, dataset.ErrDatasetNotFound):
		return http.StatusNotFound, "DATASET_NOT_FOUND", "Dataset not found"
	case errors.Is(err, dataset.ErrNotCSV):
		return http.StatusBadRequest, "NOT_CSV", "Only .csv files are accepted"
	case errors.Is(err, dataset.ErrInvalidName):
		return http.StatusBadRequest, "INVALID_NAME", "Invalid dataset file name"
	case errors.Is(err, dataset.ErrInvalidHeader):
		return http.StatusBadRequest, "INVALID_HEADER", "CSV header must have the columns: " + strings.Join(dataset.Columns, ", ")
	case errors.Is(err, dataset.ErrDatasetExists):
		return http.StatusConflict, "DATASET_EXISTS", "A dataset with this name already exists"
	case errors.Is(err, dataset.ErrProtectedDataset):
		return http.StatusConflict, "DATASET_PROTECTED", "The default dataset cannot be deleted"
	case errors.Is(err, dataset.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the upload size limit"
	default:
		return http.StatusInternalServerError, "DATASET_ERROR", "Dataset operation failed"
	}
}

// respondDatasetError writes the envelope for a dataset store error.
func respondDatasetError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := datasetErrorStatus(err)
	respondError(w, r, status, code, message, err)
}
