// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan walks volumes looking for the converter executable (tool mode)
// or for drawings (document mode). Walks skip a fixed set of system directory
// names and any pruned mount roots, and silently continue past subtrees that
// cannot be read.
package scan

import (
	"context"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/dwgview/internal/logging"
	"github.com/pdiddy/dwgview/pkg/types"
)

// Mode selects what a walk matches.
type Mode int

const (
	// ModeTool matches a file by exact name, verified by a signature sibling.
	ModeTool Mode = iota
	// ModeDocument matches every file with the query extension.
	ModeDocument
)

const defaultWorkers = 4

// Query describes what a walk looks for.
type Query struct {
	Mode Mode

	// Name is the exact filename sought in tool mode.
	Name string

	// Signatures are sibling filenames; in tool mode at least one must exist
	// next to a match for it to count.
	Signatures []string

	// Extension is the file extension sought in document mode, matched
	// case-insensitively (e.g. ".dwg").
	Extension string
}

// Root is one walk starting point plus the absolute directories beneath it
// that must not be entered.
type Root struct {
	Path  string
	Prune []string
}

// Options configures a Scanner.
type Options struct {
	// SkipDirs are directory names never descended into (exact match).
	SkipDirs []string

	// Parallel walks document roots concurrently.
	Parallel bool

	// Workers bounds concurrent walks when Parallel is set.
	Workers int

	Logger *slog.Logger
}

// Scanner performs exclusion-aware recursive traversal.
type Scanner struct {
	skip     map[string]bool
	parallel bool
	workers  int
	logger   *slog.Logger
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	skip := make(map[string]bool, len(opts.SkipDirs))
	for _, name := range opts.SkipDirs {
		skip[name] = true
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Scanner{
		skip:     skip,
		parallel: opts.Parallel,
		workers:  workers,
		logger:   logging.OrDiscard(opts.Logger),
	}
}

// Walk lazily yields the absolute paths under root that match q. Stopping the
// iteration stops the traversal. Unreadable directories are skipped silently.
func (s *Scanner) Walk(ctx context.Context, root Root, q Query) iter.Seq[string] {
	return func(yield func(string) bool) {
		start, err := filepath.Abs(root.Path)
		if err != nil {
			return
		}
		// WalkDir does not follow a symlinked start, so walk its target and
		// report paths under the root as given. Entries below the start are
		// never followed.
		walkRoot := start
		if resolved, err := filepath.EvalSymlinks(start); err == nil {
			walkRoot = resolved
		}
		prune := make(map[string]bool, len(root.Prune))
		for _, p := range root.Prune {
			prune[filepath.Clean(p)] = true
		}

		_ = filepath.WalkDir(walkRoot, func(walked string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
			if err != nil {
				// Permission denied and vanished entries are expected on
				// real volumes; keep going.
				return nil
			}
			path := walked
			if walkRoot != start {
				if rel, err := filepath.Rel(walkRoot, walked); err == nil {
					path = filepath.Join(start, rel)
				}
			}
			if d.IsDir() {
				if walked != walkRoot && (s.skip[d.Name()] || prune[path] || prune[walked]) {
					return filepath.SkipDir
				}
				return nil
			}
			if !isFile(walked, d, q.Mode) || !s.matches(path, d.Name(), q) {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// isFile reports whether d is a regular file. In tool mode a symlink to a
// regular file also counts.
func isFile(path string, d fs.DirEntry, mode Mode) bool {
	if d.Type().IsRegular() {
		return true
	}
	if mode != ModeTool || d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (s *Scanner) matches(path, name string, q Query) bool {
	switch q.Mode {
	case ModeTool:
		return name == q.Name && hasSignature(filepath.Dir(path), q.Signatures)
	case ModeDocument:
		return q.Extension != "" && strings.EqualFold(filepath.Ext(name), q.Extension)
	default:
		return false
	}
}

// hasSignature reports whether at least one signature file exists in dir.
func hasSignature(dir string, signatures []string) bool {
	for _, sig := range signatures {
		if info, err := os.Stat(filepath.Join(dir, sig)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// FindTool sweeps roots in order and returns the first verified tool match.
func (s *Scanner) FindTool(ctx context.Context, roots []Root, name string, signatures []string) (string, bool) {
	q := Query{Mode: ModeTool, Name: name, Signatures: signatures}
	for _, root := range roots {
		s.logger.Info("searching volume for tool", "root", root.Path, "tool", name)
		for path := range s.Walk(ctx, root, q) {
			return path, true
		}
	}
	return "", false
}

// FindDocuments sweeps every root fully and returns all documents with the
// given extension, sorted by path. With Parallel set the roots are walked
// concurrently; the result order does not depend on completion order.
func (s *Scanner) FindDocuments(ctx context.Context, roots []Root, ext string) []types.DocumentEntry {
	q := Query{Mode: ModeDocument, Extension: ext}
	perRoot := make([][]string, len(roots))

	collect := func(i int) {
		var found []string
		for path := range s.Walk(ctx, roots[i], q) {
			found = append(found, path)
		}
		perRoot[i] = found
		s.logger.Info("volume scanned", "root", roots[i].Path, "found", len(found))
	}

	if s.parallel && len(roots) > 1 {
		var g errgroup.Group
		g.SetLimit(s.workers)
		for i := range roots {
			g.Go(func() error {
				collect(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range roots {
			collect(i)
		}
	}

	seen := make(map[string]bool)
	var docs []types.DocumentEntry
	for _, paths := range perRoot {
		for _, p := range paths {
			if seen[p] {
				continue
			}
			seen[p] = true
			docs = append(docs, types.NewDocumentEntry(p))
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs
}
