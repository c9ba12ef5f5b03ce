// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dwgview/internal/volume"
)

var volumesCmd = &cobra.Command{
	Use:   "volumes",
	Short: "List the volumes and whether they are swept",
	Long: `Volumes prints every volume the platform reports with its medium kind.
Only fixed and removable volumes that answer a capacity query are swept.`,
	Args: cobra.NoArgs,
	RunE: runVolumes,
}

func init() {
	rootCmd.AddCommand(volumesCmd)
}

func runVolumes(cmd *cobra.Command, args []string) error {
	enum := volume.NewEnumerator(logger)
	inv := enum.Inventory(cmd.Context())
	eligible := make(map[string]bool, len(inv.Volumes))
	for _, v := range inv.Volumes {
		eligible[v.Root] = true
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOT\tKIND\tSWEPT")
	for _, v := range enum.Candidates() {
		swept := "no"
		if eligible[v.Root] {
			swept = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Root, v.Kind, swept)
	}
	return tw.Flush()
}
