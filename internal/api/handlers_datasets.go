// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/flumap/internal/auth"
	"github.com/tomtom215/flumap/internal/dataset"
	"github.com/tomtom215/flumap/internal/logging"
	"github.com/tomtom215/flumap/internal/metrics"
	"github.com/tomtom215/flumap/internal/models"
	"github.com/tomtom215/flumap/internal/pipeline"
)

const (
	// uploadFormField is the multipart field carrying the CSV file.
	uploadFormField = "file"

	// multipartOverhead allows for boundaries and part headers on top of the
	// file size limit.
	multipartOverhead = 64 << 10

	// multipartMemory is kept in memory before parts spill to temp files.
	multipartMemory = 1 << 20
)

// ListDatasets returns the names of all datasets.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	names, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "DATASET_LIST_FAILED", "Failed to list datasets", err)
		return
	}
	if names == nil {
		names = []string{}
	}

	respondSuccess(w, r, http.StatusOK, names, start)
}

// DatasetSummary describes one dataset.
func (h *Handler) DatasetSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := DatasetQuery{
		Database: chi.URLParam(r, "name"),
		View:     r.URL.Query().Get("view"),
	}
	if !dataset.ValidReference(req.Database) {
		respondError(w, r, http.StatusNotFound, "DATASET_NOT_FOUND", "Dataset not found", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	data, ok := h.readDataset(w, r, req)
	if !ok {
		return
	}

	summary := pipeline.Summarize(h.store.Resolve(req.Database), data.Records, req.Mode())
	respondSuccess(w, r, http.StatusOK, summary, start)
}

// UploadDataset stores a multipart CSV upload as a new dataset.
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user := "anonymous"
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		user = claims.Username
	}
	if !h.uploads.Allow(user) {
		metrics.RecordUpload("rate_limited", 0)
		w.Header().Set("Retry-After", "60")
		respondError(w, r, http.StatusTooManyRequests, "UPLOAD_RATE_LIMITED", "Too many uploads, please wait before trying again", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.store.MaxUploadBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			metrics.RecordUpload("too_large", 0)
			respondDatasetError(w, r, dataset.ErrTooLarge)
			return
		}
		metrics.RecordUpload("error", 0)
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Expected a multipart form upload", err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		metrics.RecordUpload("error", 0)
		respondError(w, r, http.StatusBadRequest, "MISSING_FILE", "No file uploaded in field \""+uploadFormField+"\"", nil)
		return
	}
	defer file.Close()

	name, err := h.store.Save(r.Context(), header.Filename, file)
	if err != nil {
		metrics.RecordUpload(uploadResult(err), 0)
		respondDatasetError(w, r, err)
		return
	}

	metrics.RecordUpload("success", header.Size)
	logging.Ctx(r.Context()).Info().
		Str("dataset", name).
		Str("user", sanitizeLogValue(user)).
		Int64("bytes", header.Size).
		Msg("Dataset uploaded")

	respondSuccess(w, r, http.StatusCreated, models.UploadResponse{
		Name:    name,
		Bytes:   header.Size,
		Message: "File uploaded successfully",
	}, start)
}

// uploadResult maps a Save error to the uploads metric label.
func uploadResult(err error) string {
	switch {
	case errors.Is(err, dataset.ErrNotCSV):
		return "not_csv"
	case errors.Is(err, dataset.ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, dataset.ErrDatasetExists):
		return "exists"
	case errors.Is(err, dataset.ErrTooLarge):
		return "too_large"
	case errors.Is(err, dataset.ErrInvalidHeader):
		return "invalid_header"
	default:
		return "error"
	}
}

// DeleteDataset removes a dataset. The default dataset cannot be deleted.
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	name := chi.URLParam(r, "name")
	if err := h.store.Delete(r.Context(), name); err != nil {
		respondDatasetError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("dataset", name).Msg("Dataset deleted via API")
	respondSuccess(w, r, http.StatusOK, models.DeleteResponse{
		Name:    name,
		Message: "Dataset deleted",
	}, start)
}
