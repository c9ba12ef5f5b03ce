// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Find drawings, pick one, and convert it to PDF",
	Long: `Run locates the converter and renderer, sweeps every fixed and removable
volume for DWG drawings, and prints them grouped by folder. Enter the number
of the drawing to convert, or 0 to exit.

The converter must be found before any drawing is searched for; if either tool
is missing the run stops immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := newFlow(cmd)
		if err != nil {
			return err
		}
		return f.run(cmd.Context())
	},
}

func init() {
	scanFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
