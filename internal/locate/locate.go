// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate resolves the two external tools the pipeline depends on:
// the ODA File Converter executable and the dxf_renderer.py script.
//
// The converter is looked for next to the working directory, then in the
// usual install directories of every volume, and finally by a full sweep.
// The renderer is only ever looked for near the working directory.
package locate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdiddy/dwgview/internal/logging"
	"github.com/pdiddy/dwgview/internal/process"
	"github.com/pdiddy/dwgview/internal/scan"
	"github.com/pdiddy/dwgview/internal/volume"
	"github.com/pdiddy/dwgview/pkg/types"
)

// ErrToolNotFound indicates a required external tool could not be resolved.
var ErrToolNotFound = errors.New("tool not found")

// Volumes supplies the volume inventory swept when near-path lookups miss.
type Volumes interface {
	Inventory(ctx context.Context) volume.Inventory
}

// Sweeper performs a tool-mode scan over a set of roots.
type Sweeper interface {
	FindTool(ctx context.Context, roots []scan.Root, name string, signatures []string) (string, bool)
}

// InterpreterFunc resolves the argv prefix that starts a Python script.
type InterpreterFunc func(preferred string) ([]string, error)

// Options configures a Locator.
type Options struct {
	Config  types.ToolsConfig
	WorkDir string
	Volumes Volumes
	Sweeper Sweeper

	// Interpreter defaults to process.DetectInterpreter.
	Interpreter InterpreterFunc
	Logger      *slog.Logger
}

// Locator resolves tool locations. It holds no state between calls.
type Locator struct {
	cfg         types.ToolsConfig
	wd          string
	volumes     Volumes
	sweeper     Sweeper
	interpreter InterpreterFunc
	logger      *slog.Logger
}

// New returns a Locator. An empty WorkDir means the process working directory.
func New(opts Options) (*Locator, error) {
	wd := opts.WorkDir
	if wd == "" {
		var err error
		if wd, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
	}
	wd, err := filepath.Abs(wd)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	interp := opts.Interpreter
	if interp == nil {
		interp = process.DetectInterpreter
	}
	return &Locator{
		cfg:         opts.Config,
		wd:          wd,
		volumes:     opts.Volumes,
		sweeper:     opts.Sweeper,
		interpreter: interp,
		logger:      logging.OrDiscard(opts.Logger),
	}, nil
}

// Tools resolves the converter, then the renderer.
func (l *Locator) Tools(ctx context.Context) (types.Tools, error) {
	conv, err := l.Converter(ctx)
	if err != nil {
		return types.Tools{}, err
	}
	rend, err := l.Renderer(ctx)
	if err != nil {
		return types.Tools{}, err
	}
	return types.Tools{Converter: conv, Renderer: rend}, nil
}

// Converter resolves the converter executable. The tool is started in its
// own directory so it finds its runtime libraries.
func (l *Locator) Converter(ctx context.Context) (types.ToolLocation, error) {
	name := l.cfg.ConverterName

	if path, ok := l.configured(l.cfg.ConverterPath, "converter"); ok {
		return converterAt(path), nil
	}

	near := []string{
		filepath.Join(l.wd, "..", "..", name),
		filepath.Join(l.wd, "..", name),
		filepath.Join(l.wd, name),
	}
	if path, ok := firstFile(near); ok {
		l.logger.Info("converter found near working directory", "path", path)
		return converterAt(path), nil
	}

	inv := l.volumes.Inventory(ctx)

	var installed []string
	for _, root := range inv.Roots() {
		for _, dir := range l.cfg.InstallDirs {
			installed = append(installed, filepath.Join(root, dir, name))
		}
	}
	if path, ok := firstFile(installed); ok {
		l.logger.Info("converter found in install directory", "path", path)
		return converterAt(path), nil
	}

	roots := make([]scan.Root, 0, len(inv.Volumes))
	for _, r := range inv.Roots() {
		roots = append(roots, scan.Root{Path: r, Prune: inv.PruneFor(r)})
	}
	l.logger.Info("converter not found nearby, sweeping volumes", "volumes", len(roots))
	if path, ok := l.sweeper.FindTool(ctx, roots, name, l.cfg.Signatures); ok {
		l.logger.Info("converter found", "path", path)
		return converterAt(path), nil
	}
	if err := ctx.Err(); err != nil {
		return types.ToolLocation{}, fmt.Errorf("locating %s: %w", name, err)
	}
	return types.ToolLocation{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

// Renderer resolves the renderer script and the interpreter that runs it.
// There is no volume sweep for the renderer. It inherits the caller's
// working directory.
func (l *Locator) Renderer(ctx context.Context) (types.ToolLocation, error) {
	name := l.cfg.RendererName

	path, ok := l.configured(l.cfg.RendererPath, "renderer")
	if !ok {
		path, ok = firstFile([]string{
			filepath.Join(l.wd, name),
			filepath.Join(l.wd, "..", name),
		})
	}
	if !ok {
		return types.ToolLocation{}, fmt.Errorf("%w: %s (looked in %s and its parent)", ErrToolNotFound, name, l.wd)
	}

	launcher, err := l.interpreter(l.cfg.Interpreter)
	if err != nil {
		return types.ToolLocation{}, fmt.Errorf("%w: interpreter for %s: %w", ErrToolNotFound, name, err)
	}
	l.logger.Info("renderer found", "path", path, "interpreter", launcher[0])
	return types.ToolLocation{Path: path, Launcher: launcher}, nil
}

// configured checks an explicitly configured path. A configured path that
// does not exist is logged and the regular search continues.
func (l *Locator) configured(path, tool string) (string, bool) {
	if path == "" {
		return "", false
	}
	if found, ok := firstFile([]string{path}); ok {
		return found, true
	}
	l.logger.Warn("configured "+tool+" path does not exist", "path", path)
	return "", false
}

func converterAt(path string) types.ToolLocation {
	return types.ToolLocation{Path: path, WorkDir: filepath.Dir(path)}
}

// firstFile returns the first candidate that exists as a regular file, made
// absolute and cleaned.
func firstFile(candidates []string) (string, bool) {
	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		return abs, true
	}
	return "", false
}
