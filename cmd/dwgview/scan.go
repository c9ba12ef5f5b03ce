// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dwgview/internal/catalog"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the drawings found on this machine",
	Long: `Scan sweeps the volumes for DWG drawings and prints the numbered catalog
without prompting. The numbers match the ones offered by run for the same
set of files.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanFlags(scanCmd)
	scanCmd.Flags().String("format", "text", "output format: text, yaml, or json")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	f, err := newFlow(cmd)
	if err != nil {
		return err
	}
	// Progress goes to stderr so structured output stays parseable.
	f.out = cmd.ErrOrStderr()
	out := cmd.OutOrStdout()

	cat, err := f.catalog(cmd.Context())
	if errors.Is(err, catalog.ErrNoDocuments) {
		if format == "text" {
			fmt.Fprintln(out, "No DWG files found.")
			return nil
		}
		return writeStructured(out, format, catalog.Listing{})
	}
	if err != nil {
		return err
	}

	if format == "text" {
		return cat.Render(out)
	}
	return writeStructured(out, format, cat.Export())
}
