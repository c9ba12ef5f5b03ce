// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Show where the converter and renderer were found",
	Args:  cobra.NoArgs,
	RunE:  runLocate,
}

func init() {
	locateCmd.Flags().String("format", "text", "output format: text, yaml, or json")
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	f, err := newFlow(cmd)
	if err != nil {
		return err
	}
	tools, err := f.locator.Tools(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != "text" {
		return writeStructured(out, format, tools)
	}
	fmt.Fprintf(out, "converter:   %s\n", tools.Converter.Path)
	fmt.Fprintf(out, "  work dir:  %s\n", tools.Converter.WorkDir)
	fmt.Fprintf(out, "renderer:    %s\n", tools.Renderer.Path)
	fmt.Fprintf(out, "  launcher:  %s\n", strings.Join(tools.Renderer.Launcher, " "))
	return nil
}
