// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

// Package metrics exposes FluMap's Prometheus metrics.
//
// Metrics are registered with the default registry through promauto and
// served at /metrics:
//
//	curl http://localhost:5001/metrics | grep flumap_
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flumap_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flumap_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flumap_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Dataset Metrics
	DatasetReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flumap_dataset_reads_total",
			Help: "Total number of dataset reads by result",
		},
		[]string{"result"}, // "success", "not_found", "error"
	)

	DatasetReadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flumap_dataset_read_duration_seconds",
			Help:    "Time to read and parse a whole dataset file",
			Buckets: prometheus.DefBuckets,
		},
	)

	DatasetRecordsParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flumap_dataset_records_parsed_total",
			Help: "Total number of dataset rows parsed into records",
		},
	)

	DatasetMalformedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flumap_dataset_malformed_rows_total",
			Help: "Total number of dataset rows skipped as malformed",
		},
	)

	DatasetsAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flumap_datasets_available",
			Help: "Number of datasets currently in the data directory",
		},
	)

	DatasetWatchEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flumap_dataset_watch_events_total",
			Help: "Data directory change events observed by the watcher",
		},
		[]string{"op"}, // "create", "write", "remove", "rename"
	)

	// Upload Metrics
	DatasetUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flumap_dataset_uploads_total",
			Help: "Total number of dataset uploads by result",
		},
		[]string{"result"}, // "success", "not_csv", "invalid_name", "exists", "too_large", "invalid_header", "rate_limited", "error"
	)

	DatasetUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flumap_dataset_upload_bytes",
			Help:    "Size of accepted dataset uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB .. 16MiB
		},
	)

	UploadJanitorRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flumap_upload_janitor_removed_total",
			Help: "Stale staged upload files removed by the janitor",
		},
	)

	// Auth Metrics
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flumap_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // "success", "invalid", "locked", "error"
	)

	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flumap_authz_decisions_total",
			Help: "Authorization decisions by action and result",
		},
		[]string{"action", "result"}, // result: "allowed", "denied"
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDatasetRead records one dataset read.
func RecordDatasetRead(result string, records, malformed int, duration time.Duration) {
	DatasetReadsTotal.WithLabelValues(result).Inc()
	DatasetReadDuration.Observe(duration.Seconds())
	DatasetRecordsParsed.Add(float64(records))
	DatasetMalformedRows.Add(float64(malformed))
}

// RecordUpload records an upload outcome. bytes is only observed on success.
func RecordUpload(result string, bytes int64) {
	DatasetUploadsTotal.WithLabelValues(result).Inc()
	if result == "success" {
		DatasetUploadBytes.Observe(float64(bytes))
	}
}

// RecordLoginAttempt records a login attempt outcome.
func RecordLoginAttempt(result string) {
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordAuthzDecision records an authorization decision.
func RecordAuthzDecision(action string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	AuthzDecisionsTotal.WithLabelValues(action, result).Inc()
}

// SetDatasetsAvailable updates the dataset count gauge.
func SetDatasetsAvailable(n int) {
	DatasetsAvailable.Set(float64(n))
}
