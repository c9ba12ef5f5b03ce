// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/pdiddy/dwgview/internal/catalog"
	"github.com/pdiddy/dwgview/internal/scan"
	"github.com/pdiddy/dwgview/internal/volume"
	"github.com/pdiddy/dwgview/pkg/types"
)

type toolLocator interface {
	Tools(ctx context.Context) (types.Tools, error)
}

type volumeLister interface {
	Inventory(ctx context.Context) volume.Inventory
}

type documentFinder interface {
	FindDocuments(ctx context.Context, roots []scan.Root, ext string) []types.DocumentEntry
}

type pipelineRunner interface {
	Run(ctx context.Context, doc types.DocumentEntry, tools types.Tools) (*types.PipelineRun, error)
}

// flow is one interactive session: locate the tools, sweep for drawings,
// let the user pick one, and convert it.
type flow struct {
	locator  toolLocator
	volumes  volumeLister
	finder   documentFinder
	pipeline pipelineRunner

	// roots narrows the document sweep; empty means every eligible volume.
	roots []string
	ext   string

	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

// run executes the session. A nil error covers a completed conversion, an
// empty sweep, and the user choosing 0.
func (f *flow) run(ctx context.Context) error {
	tools, err := f.locator.Tools(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(f.out, "Converter: %s\nRenderer:  %s\n\n", tools.Converter.Path, tools.Renderer.Path)

	cat, err := f.catalog(ctx)
	if errors.Is(err, catalog.ErrNoDocuments) {
		fmt.Fprintln(f.out, "No DWG files found.")
		return nil
	}
	if err != nil {
		return err
	}
	if err := cat.Render(f.out); err != nil {
		return err
	}

	doc, err := catalog.Select(ctx, cat, f.in, f.out)
	if errors.Is(err, catalog.ErrCancelled) {
		fmt.Fprintln(f.out, "Exiting.")
		return nil
	}
	if err != nil {
		return err
	}

	return f.convert(ctx, doc, tools)
}

// convert runs the pipeline for doc and reports the outcome.
func (f *flow) convert(ctx context.Context, doc types.DocumentEntry, tools types.Tools) error {
	fmt.Fprintf(f.out, "\nSelected: %s\n", doc.Path)
	run, err := f.pipeline.Run(ctx, doc, tools)
	if err != nil {
		return fmt.Errorf("converting %s: %w", doc.Name, err)
	}
	if run.PageCount > 0 {
		fmt.Fprintf(f.out, "PDF created: %s (%d page(s))\n", run.FinalPath, run.PageCount)
	} else {
		fmt.Fprintf(f.out, "PDF created: %s\n", run.FinalPath)
	}
	return nil
}

// catalog sweeps for documents and builds the numbered catalog.
func (f *flow) catalog(ctx context.Context) (*catalog.Catalog, error) {
	fmt.Fprintln(f.out, "Searching for DWG files...")
	docs := f.finder.FindDocuments(ctx, f.sweepRoots(ctx), f.ext)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("searching for drawings: %w", err)
	}
	return catalog.Build(docs)
}

// sweepRoots returns the roots of the document sweep: the explicit roots if
// any, otherwise every eligible volume.
func (f *flow) sweepRoots(ctx context.Context) []scan.Root {
	inv := f.volumes.Inventory(ctx)
	if len(f.roots) == 0 {
		roots := make([]scan.Root, 0, len(inv.Volumes))
		for _, r := range inv.Roots() {
			roots = append(roots, scan.Root{Path: r, Prune: inv.PruneFor(r)})
		}
		return roots
	}
	roots := make([]scan.Root, 0, len(f.roots))
	for _, r := range f.roots {
		if abs, err := filepath.Abs(r); err == nil {
			r = abs
		}
		roots = append(roots, scan.Root{Path: r, Prune: inv.Excluded(r)})
	}
	f.logger.Info("sweep narrowed to explicit roots", "roots", f.roots)
	return roots
}
