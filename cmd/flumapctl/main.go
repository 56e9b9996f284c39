// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

// Command flumapctl is the operator CLI for FluMap. It hashes passwords for
// the users file and inspects datasets without starting the server.
//
// Usage:
//
//	flumapctl hash-password
//	flumapctl datasets --data-dir ./data
//	flumapctl inspect default --view months
//	flumapctl validate new-outbreaks.csv
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/flumap/internal/logging"
)

var (
	dataDir    string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "flumapctl",
	Short:         "Operator tools for the FluMap server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Config{Level: "warn", Format: "console"})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "dataset directory or afs URL (default: DATA_DIR or ./data)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(hashPasswordCmd, datasetsCmd, inspectCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
