// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dwgview/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.dwg>",
	Short: "Convert one drawing to PDF without searching",
	Long: `Convert locates the tools and runs both stages for the given drawing.
The DXF is written to convertedDXF/ and the PDF to convertedPDF/ next to the
drawing.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	doc, err := documentArg(args[0], cfg.Scan.Extension)
	if err != nil {
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
	return f.convert(cmd.Context(), doc, tools)
}

// documentArg validates a drawing path given on the command line.
func documentArg(path, ext string) (types.DocumentEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.DocumentEntry{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return types.DocumentEntry{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return types.DocumentEntry{}, fmt.Errorf("%s is a directory", path)
	}
	if !strings.EqualFold(filepath.Ext(abs), ext) {
		return types.DocumentEntry{}, fmt.Errorf("%s does not have the %s extension", path, ext)
	}
	return types.NewDocumentEntry(abs), nil
}
