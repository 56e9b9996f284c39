// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/flumap/internal/dataset"
	"github.com/tomtom215/flumap/internal/models"
	"github.com/tomtom215/flumap/internal/pipeline"
)

// readDataset loads the dataset named by q, answering 404 or 500 itself on
// failure.
func (h *Handler) readDataset(w http.ResponseWriter, r *http.Request, q DatasetQuery) (*dataset.ParseResult, bool) {
	name := h.store.Resolve(q.Database)
	result, err := h.store.ReadWithStats(r.Context(), name)
	if err != nil {
		respondDatasetError(w, r, err)
		return nil, false
	}
	return result, true
}

// processDataset validates req, loads the dataset and runs the pipeline.
func (h *Handler) processDataset(w http.ResponseWriter, r *http.Request, req interface{}, q DatasetQuery) (*pipeline.Result, bool) {
	if apiErr := validateRequest(req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return nil, false
	}

	data, ok := h.readDataset(w, r, q)
	if !ok {
		return nil, false
	}

	result := pipeline.Process(data.Records, q.Mode())
	return &result, true
}

// Data returns the raw records of a dataset, optionally limited to one year.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := DataQuery{DatasetQuery: readDatasetQuery(r)}
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "year must be a number", nil)
			return
		}
		req.Year = year
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	data, ok := h.readDataset(w, r, req.DatasetQuery)
	if !ok {
		return
	}

	records := data.Records
	if req.Year != 0 {
		records = pipeline.FilterByYear(records, req.Year)
	}
	if records == nil {
		records = []models.BirdRecord{}
	}

	respondSuccess(w, r, http.StatusOK, records, start)
}

// Cases returns the processed case set.
func (h *Handler) Cases(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := readDatasetQuery(r)
	result, ok := h.processDataset(w, r, &req, req)
	if !ok {
		return
	}

	respondSuccess(w, r, http.StatusOK, result.CaseSet, start)
}

// Chart returns per-period counts for the cases matched by the map filters.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := ChartQuery{
		DatasetQuery: readDatasetQuery(r),
		FluTypes:     splitQueryValues(r, "flu_type"),
		Species:      queryValues(r, "species"),
		Provenance:   queryValues(r, "provenance"),
	}
	result, ok := h.processDataset(w, r, &req, req.DatasetQuery)
	if !ok {
		return
	}

	cases := pipeline.FilterChart(result.Cases, req.Filters()...)
	points := pipeline.Aggregate(cases)
	pipeline.SortPoints(points, req.Mode())

	respondSuccess(w, r, http.StatusOK, points, start)
}

// Map returns the cases shown on one map. Without a period the first
// timeline entry is used.
func (h *Handler) Map(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := r.URL.Query()
	req := MapQuery{
		DatasetQuery: readDatasetQuery(r),
		Period:       strings.TrimSpace(q.Get("period")),
		FluType:      strings.TrimSpace(q.Get("flu_type")),
		Species:      strings.TrimSpace(q.Get("species")),
		Provenance:   strings.TrimSpace(q.Get("provenance")),
	}
	result, ok := h.processDataset(w, r, &req, req.DatasetQuery)
	if !ok {
		return
	}

	period := req.Period
	if period == "" && len(result.Periods) > 0 {
		period = result.Periods[0]
	}

	filter := req.Filter(period)
	cases := pipeline.FilterMap(result.Cases, filter)

	respondSuccess(w, r, http.StatusOK, models.MapView{
		Period: period,
		Filter: filter,
		Cases:  cases,
		Count:  len(cases),
	}, start)
}

// Options returns the values the dashboard filters offer.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := readDatasetQuery(r)
	result, ok := h.processDataset(w, r, &req, req)
	if !ok {
		return
	}

	respondSuccess(w, r, http.StatusOK, pipeline.Options(result.Cases), start)
}

// Timeline returns the playback state at index. An out-of-range index
// resets to the first period.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := readDatasetQuery(r)
	result, ok := h.processDataset(w, r, &req, req)
	if !ok {
		return
	}

	index := getIntParam(r, "index", 0)
	respondSuccess(w, r, http.StatusOK, pipeline.BuildTimeline(result.Periods, req.Mode(), index), start)
}
