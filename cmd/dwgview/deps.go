// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dwgview/internal/locate"
	"github.com/pdiddy/dwgview/internal/pipeline"
	"github.com/pdiddy/dwgview/internal/scan"
	"github.com/pdiddy/dwgview/internal/volume"
	"github.com/pdiddy/dwgview/pkg/types"
)

// scanFlags registers the flags shared by commands that sweep for documents.
func scanFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("root", nil, "directory to search for drawings (repeatable; default: every eligible volume)")
	cmd.Flags().Bool("parallel", false, "sweep volumes concurrently")
}

// applyScanFlags overrides the configured scan settings with explicit flags.
func applyScanFlags(cmd *cobra.Command, c types.ScanConfig) types.ScanConfig {
	if cmd.Flags().Changed("root") {
		c.Roots, _ = cmd.Flags().GetStringSlice("root")
	}
	if cmd.Flags().Changed("parallel") {
		c.Parallel, _ = cmd.Flags().GetBool("parallel")
	}
	return c
}

func newScanner(c types.ScanConfig) *scan.Scanner {
	return scan.New(scan.Options{
		SkipDirs: c.SkipDirs,
		Parallel: c.Parallel,
		Workers:  c.Workers,
		Logger:   logger,
	})
}

func newLocator(enum *volume.Enumerator, scanner *scan.Scanner) (*locate.Locator, error) {
	return locate.New(locate.Options{
		Config:  cfg.Tools,
		Volumes: enum,
		Sweeper: scanner,
		Logger:  logger,
	})
}

func newOrchestrator() *pipeline.Orchestrator {
	return pipeline.New(pipeline.Options{
		Convert: cfg.Convert,
		Render:  cfg.Render,
		Output:  os.Stderr,
		Logger:  logger,
	})
}

// newFlow wires the production implementations into a flow.
func newFlow(cmd *cobra.Command) (*flow, error) {
	sc := applyScanFlags(cmd, cfg.Scan)
	enum := volume.NewEnumerator(logger)
	scanner := newScanner(sc)
	loc, err := newLocator(enum, scanner)
	if err != nil {
		return nil, err
	}
	return &flow{
		locator:  loc,
		volumes:  enum,
		finder:   scanner,
		pipeline: newOrchestrator(),
		roots:    sc.Roots,
		ext:      sc.Extension,
		in:       cmd.InOrStdin(),
		out:      cmd.OutOrStdout(),
		logger:   logger,
	}, nil
}
