// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/tomtom215/flumap/internal/config"
	"github.com/tomtom215/flumap/internal/logging"
	"github.com/tomtom215/flumap/internal/metrics"
	"github.com/tomtom215/flumap/internal/models"
)

const (
	csvExt        = ".csv"
	tempPrefix    = ".upload-"
	tempSuffix    = ".tmp"
	maxNameLength = 128
)

var validName = regexp.MustCompile(`^[A-Za-z0-9 _.-]+$`)

// Store reads and writes datasets in one data directory.
type Store struct {
	fs             afs.Service
	baseURL        string
	defaultDataset string
	maxUploadBytes int64

	// mu serializes writers so the duplicate check and the final move are atomic.
	mu sync.Mutex
}

// NewStore opens the data directory described by cfg, creating it when missing.
func NewStore(ctx context.Context, cfg config.DataConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	baseURL := cfg.Dir
	if !strings.Contains(baseURL, "://") {
		baseURL = url.Normalize(baseURL, file.Scheme)
	}

	fs := afs.New()
	exists, err := fs.Exists(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to check data directory: %w", err)
	}
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", baseURL, err)
		}
	}

	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}

	return &Store{
		fs:             fs,
		baseURL:        baseURL,
		defaultDataset: cfg.DefaultDataset,
		maxUploadBytes: maxBytes,
	}, nil
}

// BaseURL returns the normalized data directory URL.
func (s *Store) BaseURL() string {
	return s.baseURL
}

// DefaultDataset returns the dataset used when a request names none.
func (s *Store) DefaultDataset() string {
	return s.defaultDataset
}

// MaxUploadBytes returns the upload size limit.
func (s *Store) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// LocalDir returns the data directory as a local path when it lives on the
// local file system.
func (s *Store) LocalDir() (string, bool) {
	if !strings.HasPrefix(s.baseURL, file.Scheme+"://") {
		return "", false
	}
	return url.Path(s.baseURL), true
}

// Resolve maps a request's dataset parameter to a dataset name, applying
// the default when empty and stripping a trailing .csv.
func (s *Store) Resolve(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.defaultDataset
	}
	return trimCSVExt(name)
}

func trimCSVExt(name string) string {
	if strings.EqualFold(path.Ext(name), csvExt) {
		return name[:len(name)-len(csvExt)]
	}
	return name
}

// List returns dataset names sorted ascending.
func (s *Store) List(ctx context.Context) ([]string, error) {
	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}

	names := make([]string, 0, len(objects))
	for _, obj := range objects {
		if obj.IsDir() {
			continue
		}
		name := obj.Name()
		// Case-sensitive: datasetURL always appends a lowercase extension.
		if strings.HasPrefix(name, ".") || path.Ext(name) != csvExt || !ValidName(name[:len(name)-len(csvExt)]) {
			continue
		}
		names = append(names, name[:len(name)-len(csvExt)])
	}
	sort.Strings(names)
	return names, nil
}

// Ping verifies the data directory is reachable.
func (s *Store) Ping(ctx context.Context) error {
	exists, err := s.fs.Exists(ctx, s.baseURL)
	if err != nil {
		return fmt.Errorf("data directory unreachable: %w", err)
	}
	if !exists {
		return fmt.Errorf("data directory %s does not exist", s.baseURL)
	}
	if _, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false)); err != nil {
		return fmt.Errorf("data directory unreachable: %w", err)
	}
	return nil
}

// Exists reports whether a dataset exists.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, nil
	}
	return s.fs.Exists(ctx, s.datasetURL(name))
}

// Read returns every record of a dataset.
func (s *Store) Read(ctx context.Context, name string) ([]models.BirdRecord, error) {
	result, err := s.ReadWithStats(ctx, name)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// ReadWithStats reads a dataset and also reports how many rows were skipped.
func (s *Store) ReadWithStats(ctx context.Context, name string) (*ParseResult, error) {
	start := time.Now()

	if err := validateName(name); err != nil {
		metrics.RecordDatasetRead("not_found", 0, 0, time.Since(start))
		return nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}

	URL := s.datasetURL(name)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		metrics.RecordDatasetRead("error", 0, 0, time.Since(start))
		return nil, fmt.Errorf("failed to check dataset %s: %w", name, err)
	}
	if !exists {
		metrics.RecordDatasetRead("not_found", 0, 0, time.Since(start))
		return nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}

	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		metrics.RecordDatasetRead("error", 0, 0, time.Since(start))
		return nil, fmt.Errorf("failed to read dataset %s: %w", name, err)
	}

	result, err := Parse(bytes.NewReader(data))
	if err != nil {
		metrics.RecordDatasetRead("error", 0, 0, time.Since(start))
		return nil, fmt.Errorf("failed to parse dataset %s: %w", name, err)
	}

	metrics.RecordDatasetRead("success", len(result.Records), result.Malformed, time.Since(start))
	if result.Malformed > 0 {
		logging.Debug().
			Str("dataset", name).
			Int("malformed", result.Malformed).
			Msg("Skipped malformed dataset rows")
	}
	return result, nil
}

// Save stores an uploaded file as a new dataset and returns its name.
func (s *Store) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name, err := NameFromFilename(filename)
	if err != nil {
		return "", err
	}

	// Read one byte past the limit to detect oversized content.
	data, err := io.ReadAll(io.LimitReader(r, s.maxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxUploadBytes)
	}

	header, err := newCSVReader(bytes.NewReader(data)).Read()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	if err := CheckHeader(header); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	finalURL := s.datasetURL(name)
	exists, err := s.fs.Exists(ctx, finalURL)
	if err != nil {
		return "", fmt.Errorf("failed to check dataset %s: %w", name, err)
	}
	if exists {
		return "", fmt.Errorf("%w: %q", ErrDatasetExists, name)
	}

	if err := s.publish(ctx, finalURL, data); err != nil {
		return "", fmt.Errorf("failed to publish dataset %s: %w", name, err)
	}

	logging.Info().
		Str("dataset", name).
		Int("bytes", len(data)).
		Msg("Dataset saved")
	return name, nil
}

// publish writes data to finalURL. On the local file system the content is
// staged next to the target and renamed into place, so readers never see a
// partial file. afs Move treats a missing destination as a directory, hence
// the direct rename. Other schemes upload in one call.
func (s *Store) publish(ctx context.Context, finalURL string, data []byte) error {
	dir, ok := s.LocalDir()
	if !ok {
		return s.fs.Upload(ctx, finalURL, file.DefaultFileOsMode, bytes.NewReader(data))
	}

	tempURL := url.Join(s.baseURL, tempPrefix+uuid.New().String()+tempSuffix)
	if err := s.fs.Upload(ctx, tempURL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to stage upload: %w", err)
	}
	finalPath := filepath.Join(dir, path.Base(url.Path(finalURL)))
	if err := os.Rename(url.Path(tempURL), finalPath); err != nil {
		if delErr := s.fs.Delete(ctx, tempURL); delErr != nil {
			logging.Warn().Err(delErr).Str("url", tempURL).Msg("Failed to remove staged upload")
		}
		return err
	}
	return nil
}

// Delete removes a dataset. The default dataset is protected.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}
	if name == s.defaultDataset {
		return ErrProtectedDataset
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	URL := s.datasetURL(name)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check dataset %s: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete dataset %s: %w", name, err)
	}

	logging.Info().Str("dataset", name).Msg("Dataset deleted")
	return nil
}

// CleanupStaleUploads removes staged upload objects older than maxAge and
// returns how many were removed.
func (s *Store) CleanupStaleUploads(ctx context.Context, maxAge time.Duration) (int, error) {
	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false))
	if err != nil {
		return 0, fmt.Errorf("failed to list staged uploads: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, obj := range objects {
		if !isStagedUpload(obj) || obj.ModTime().After(cutoff) {
			continue
		}
		if err := s.fs.Delete(ctx, obj.URL()); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", obj.Name(), err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// NameFromFilename validates an uploaded file name and returns the dataset
// name it would be stored under.
func NameFromFilename(filename string) (string, error) {
	if !strings.EqualFold(path.Ext(filename), csvExt) {
		return "", fmt.Errorf("%w: %q", ErrNotCSV, filename)
	}
	name := filename[:len(filename)-len(csvExt)]
	if err := validateName(name); err != nil {
		return "", err
	}
	return name, nil
}

func validateName(name string) error {
	switch {
	case name == "", len(name) > maxNameLength:
		return fmt.Errorf("%w: length must be 1-%d", ErrInvalidName, maxNameLength)
	case strings.ContainsAny(name, `/\`), strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q is not a plain file name", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q must not start with a dot", ErrInvalidName, name)
	case !validName.MatchString(name):
		return fmt.Errorf("%w: %q contains unsupported characters", ErrInvalidName, name)
	case strings.EqualFold(path.Ext(name), csvExt):
		// Resolve strips one .csv, so such a name could never be read back.
		return fmt.Errorf("%w: %q must not end in %s", ErrInvalidName, name, csvExt)
	}
	return nil
}

// ValidName reports whether name is acceptable as a dataset name.
func ValidName(name string) bool {
	return validateName(name) == nil
}

// ValidReference reports whether ref names a dataset once Resolve strips an
// optional .csv extension.
func ValidReference(ref string) bool {
	return ValidName(trimCSVExt(ref))
}

func isStagedUpload(obj storage.Object) bool {
	name := obj.Name()
	return !obj.IsDir() && strings.HasPrefix(name, tempPrefix) && strings.HasSuffix(name, tempSuffix)
}

func (s *Store) datasetURL(name string) string {
	return url.Join(s.baseURL, name+csvExt)
}
