// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tomtom215/flumap/internal/logging"
	"github.com/tomtom215/flumap/internal/metrics"
)

// DatasetLister lists dataset names. Satisfied by *dataset.Store.
type DatasetLister interface {
	List(ctx context.Context) ([]string, error)
}

// DatasetWatcher observes the local data directory and keeps the
// flumap_datasets_available gauge current. It never caches dataset content.
type DatasetWatcher struct {
	dir      string
	lister   DatasetLister
	debounce time.Duration
	logger   zerolog.Logger

	// ready is closed once the directory is being watched. Tests wait on it.
	ready chan struct{}
}

// NewDatasetWatcher watches dir. Bursts of events within debounce trigger a
// single recount.
func NewDatasetWatcher(dir string, lister DatasetLister, debounce time.Duration) *DatasetWatcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &DatasetWatcher{
		dir:      dir,
		lister:   lister,
		debounce: debounce,
		logger:   logging.WithComponent("dataset-watcher"),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the watcher has registered the directory.
func (w *DatasetWatcher) Ready() <-chan struct{} {
	return w.ready
}

// Serve implements suture.Service.
func (w *DatasetWatcher) Serve(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.refresh(ctx)
	w.markReady()
	w.logger.Info().Str("dir", w.dir).Msg("Watching data directory")

	// A nil channel blocks until the first relevant event arms the timer.
	var recount <-chan time.Time
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			if !w.handleEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			recount = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			w.logger.Warn().Err(err).Msg("Data directory watch error")

		case <-recount:
			recount = nil
			w.refresh(ctx)
		}
	}
}

// handleEvent logs a dataset change and reports whether the dataset count
// may have changed. Staged uploads and non-CSV files are ignored.
func (w *DatasetWatcher) handleEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || !strings.EqualFold(filepath.Ext(base), ".csv") {
		return false
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))

	var op string
	switch {
	case event.Op&fsnotify.Create != 0:
		op = "create"
	case event.Op&fsnotify.Remove != 0:
		op = "remove"
	case event.Op&fsnotify.Rename != 0:
		op = "rename"
	case event.Op&fsnotify.Write != 0:
		op = "write"
	default:
		return false
	}

	metrics.DatasetWatchEvents.WithLabelValues(op).Inc()
	w.logger.Info().Str("dataset", name).Str("op", op).Msg("Dataset changed")
	return op != "write"
}

func (w *DatasetWatcher) refresh(ctx context.Context) {
	names, err := w.lister.List(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("Failed to count datasets")
		return
	}
	metrics.SetDatasetsAvailable(len(names))
}

func (w *DatasetWatcher) markReady() {
	select {
	case <-w.ready:
	default:
		close(w.ready)
	}
}

// String names the service in suture log events.
func (w *DatasetWatcher) String() string {
	return "dataset-watcher"
}
