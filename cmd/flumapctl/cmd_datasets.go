// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/flumap/internal/config"
	"github.com/tomtom215/flumap/internal/dataset"
	"github.com/tomtom215/flumap/internal/models"
	"github.com/tomtom215/flumap/internal/pipeline"
)

var inspectView string

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets in the data directory",
	Args:  cobra.NoArgs,
	RunE:  runDatasets,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Summarize a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var validateCmd = &cobra.Command{
	Use:   "validate <file.csv>",
	Short: "Check a CSV file before uploading it",
	Long: `Checks that a file has a .csv name, the nine dataset columns and at least
one row with a parseable timestamp. Rows that would be skipped are counted.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectView, "view", string(models.ViewSeasons), "period granularity: seasons or months")
}

// openStore builds a dataset store from the server configuration, with
// --data-dir taking precedence.
func openStore(ctx context.Context) (*dataset.Store, error) {
	data, err := config.LoadData()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if dataDir != "" {
		data.Dir = dataDir
	}
	return dataset.NewStore(ctx, data)
}

func runDatasets(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	names, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, names)
	}
	for _, name := range names {
		marker := " "
		if name == store.DefaultDataset() {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, name)
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	mode, err := models.ParseViewMode(inspectView)
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	result, err := store.ReadWithStats(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	summary := pipeline.Summarize(args[0], result.Records, mode)
	summary.Skipped += result.Malformed

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := dataset.NameFromFilename(filepath.Base(path)); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := dataset.Parse(f)
	if err != nil {
		return err
	}
	if err := dataset.CheckHeader(result.Header); err != nil {
		return err
	}

	summary := pipeline.Summarize(path, result.Records, models.ViewSeasons)
	summary.Skipped += result.Malformed
	if summary.Records == 0 {
		return fmt.Errorf("%s has no rows with a parseable timestamp (%d skipped)", path, summary.Skipped)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d records, %d skipped\n", path, summary.Records, summary.Skipped)
	return nil
}

func printSummary(w io.Writer, s models.DatasetSummary) {
	fmt.Fprintf(w, "Dataset:  %s\n", s.Name)
	fmt.Fprintf(w, "View:     %s\n", s.ViewMode)
	fmt.Fprintf(w, "Records:  %d (%d skipped)\n", s.Records, s.Skipped)
	fmt.Fprintf(w, "Range:    %s .. %s\n", s.FirstDate, s.LastDate)
	fmt.Fprintf(w, "Species:  %d\n", s.Species)
	fmt.Fprintf(w, "Periods:  %s\n", strings.Join(s.Periods, ", "))
	fmt.Fprintf(w, "Flu:      H5N1=%d H5N2=%d H7N2=%d H7N8=%d Unknown=%d\n",
		s.FluCounts.H5N1, s.FluCounts.H5N2, s.FluCounts.H7N2, s.FluCounts.H7N8, s.FluCounts.Unknown)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
