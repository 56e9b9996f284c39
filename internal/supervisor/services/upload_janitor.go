// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flumap/internal/logging"
	"github.com/tomtom215/flumap/internal/metrics"
)

// StaleUploadCleaner removes staged uploads older than maxAge. Satisfied by
// *dataset.Store.
type StaleUploadCleaner interface {
	CleanupStaleUploads(ctx context.Context, maxAge time.Duration) (int, error)
}

// UploadJanitor periodically removes staged upload files left behind by
// interrupted uploads.
type UploadJanitor struct {
	cleaner  StaleUploadCleaner
	interval time.Duration
	maxAge   time.Duration
	logger   zerolog.Logger
}

// NewUploadJanitor sweeps every interval for staged files older than maxAge.
func NewUploadJanitor(cleaner StaleUploadCleaner, interval, maxAge time.Duration) *UploadJanitor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &UploadJanitor{
		cleaner:  cleaner,
		interval: interval,
		maxAge:   maxAge,
		logger:   logging.WithComponent("upload-janitor"),
	}
}

// Serve implements suture.Service. It sweeps once at start, then on every tick.
func (j *UploadJanitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *UploadJanitor) sweep(ctx context.Context) {
	removed, err := j.cleaner.CleanupStaleUploads(ctx, j.maxAge)
	if removed > 0 {
		metrics.UploadJanitorRemoved.Add(float64(removed))
		j.logger.Info().Int("removed", removed).Msg("Removed stale staged uploads")
	}
	if err != nil && ctx.Err() == nil {
		j.logger.Warn().Err(err).Msg("Staged upload cleanup failed")
	}
}

// String names the service in suture log events.
func (j *UploadJanitor) String() string {
	return "upload-janitor"
}
