// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the two conversion stages for one drawing: the ODA
// File Converter turns it into DXF, then dxf_renderer.py turns the DXF into
// PDF. Each stage is a bounded external process whose result is checked on
// disk. Stage 2 runs only after stage 1 succeeded; nothing is retried and
// nothing is cleaned up on failure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/dwgview/internal/logging"
	"github.com/pdiddy/dwgview/internal/process"
	"github.com/pdiddy/dwgview/pkg/types"
)

// Options configures an Orchestrator.
type Options struct {
	Convert types.ConvertConfig
	Render  types.RenderConfig

	// Runner defaults to process.NewRunner().
	Runner process.Runner

	// Output receives stage progress and the tools' console output. Nil
	// discards it.
	Output io.Writer
	Logger *slog.Logger
}

// Orchestrator executes pipeline runs. It keeps no state between runs.
type Orchestrator struct {
	convert types.ConvertConfig
	render  types.RenderConfig
	runner  process.Runner
	out     io.Writer
	logger  *slog.Logger
	newID   func() string
}

// New returns an Orchestrator.
func New(opts Options) *Orchestrator {
	runner := opts.Runner
	if runner == nil {
		runner = process.NewRunner()
	}
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	return &Orchestrator{
		convert: opts.Convert,
		render:  opts.Render,
		runner:  runner,
		out:     out,
		logger:  logging.OrDiscard(opts.Logger),
		newID:   uuid.NewString,
	}
}

// stage describes one bounded tool invocation and the file it must leave.
type stage struct {
	name    types.StageName
	argv    []string
	dir     string
	timeout time.Duration
	outDir  string
	output  string

	// strictExit fails the stage on a non-zero exit even when the output
	// exists. The converter's exit code is not reliable; the renderer's is.
	strictExit bool
}

// Run converts doc to PDF using tools. The returned run records the state of
// both stages and is non-nil even when err is non-nil. A failed stage is
// reported as a *StageError.
func (o *Orchestrator) Run(ctx context.Context, doc types.DocumentEntry, tools types.Tools) (*types.PipelineRun, error) {
	layout := LayoutFor(doc, o.convert, o.render)
	run := &types.PipelineRun{
		ID:               o.newID(),
		Document:         doc,
		IntermediatePath: layout.IntermediatePath,
		FinalPath:        layout.FinalPath,
		Stages: [2]types.StageState{
			{Name: types.StageConvert, Status: types.StagePending},
			{Name: types.StageRender, Status: types.StagePending},
		},
	}
	logger := o.logger.With("run", run.ID, "document", doc.Path)
	logger.Info("pipeline started")

	convert := stage{
		name: types.StageConvert,
		argv: tools.Converter.Argv(
			doc.Dir,
			layout.IntermediateDir,
			o.convert.OutputVersion,
			o.convert.OutputFormat,
			o.convert.Recurse,
			o.convert.Audit,
			doc.Name,
		),
		dir:     tools.Converter.WorkDir,
		timeout: o.convert.Timeout,
		outDir:  layout.IntermediateDir,
		output:  layout.IntermediatePath,
	}
	fmt.Fprintf(o.out, "Converting %s to %s\n", doc.Name, o.convert.OutputFormat)
	if err := o.runStage(ctx, logger, run, convert); err != nil {
		return run, err
	}

	render := stage{
		name:       types.StageRender,
		argv:       tools.Renderer.Argv(layout.IntermediatePath, layout.FinalPath),
		dir:        tools.Renderer.WorkDir,
		timeout:    o.render.Timeout,
		outDir:     layout.FinalDir,
		output:     layout.FinalPath,
		strictExit: true,
	}
	fmt.Fprintf(o.out, "Rendering %s\n", layout.IntermediatePath)
	if err := o.runStage(ctx, logger, run, render); err != nil {
		return run, err
	}

	if n, err := pageCount(layout.FinalPath); err != nil {
		logger.Warn("could not read rendered PDF", "path", layout.FinalPath, "error", err)
	} else {
		run.PageCount = n
	}
	logger.Info("pipeline succeeded", "output", layout.FinalPath, "pages", run.PageCount)
	return run, nil
}

func (o *Orchestrator) runStage(ctx context.Context, logger *slog.Logger, run *types.PipelineRun, s stage) error {
	state := run.Stage(s.name)
	state.Status = types.StageRunning

	fail := func(serr *StageError) error {
		state.Status = types.StageFailed
		state.ExitCode = serr.ExitCode
		state.Reason = serr.Error()
		logger.Error("stage failed", "stage", s.name, "kind", serr.Kind, "exit_code", serr.ExitCode, "error", serr.Err)
		return serr
	}

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return fail(&StageError{Stage: s.name, Kind: KindLaunch, ExitCode: -1, Err: fmt.Errorf("creating output directory: %w", err)})
	}

	stdout := process.NewPrefixWriter(o.out, "["+string(s.name)+"] ")
	stderr := process.NewPrefixWriter(o.out, "["+string(s.name)+"] ")
	logger.Debug("stage starting", "stage", s.name, "argv", s.argv, "dir", s.dir, "timeout", s.timeout)

	res, err := o.runner.Run(ctx, process.Command{
		Argv:    s.argv,
		Dir:     s.dir,
		Timeout: s.timeout,
		Stdout:  stdout,
		Stderr:  stderr,
	})
	_ = stdout.Flush()
	_ = stderr.Flush()
	state.Duration = res.Duration
	state.ExitCode = res.ExitCode

	switch {
	case err != nil && errors.Is(err, process.ErrLaunch):
		return fail(&StageError{Stage: s.name, Kind: KindLaunch, ExitCode: -1, Err: err})
	case err != nil:
		return fail(&StageError{Stage: s.name, Kind: KindInterrupted, ExitCode: res.ExitCode, Err: errors.Join(err, res.KillErr)})
	case res.TimedOut:
		cause := fmt.Errorf("no exit after %s", s.timeout)
		if res.KillErr != nil {
			cause = fmt.Errorf("%w; terminating failed: %w", cause, res.KillErr)
		}
		return fail(&StageError{Stage: s.name, Kind: KindTimeout, ExitCode: res.ExitCode, Err: cause})
	case s.strictExit && res.ExitCode != 0:
		return fail(&StageError{Stage: s.name, Kind: KindExit, ExitCode: res.ExitCode})
	}

	if info, statErr := os.Stat(s.output); statErr != nil || info.IsDir() {
		return fail(&StageError{Stage: s.name, Kind: KindMissingOutput, ExitCode: res.ExitCode, Path: s.output, Err: statErr})
	}
	if res.ExitCode != 0 {
		logger.Warn("stage exited non-zero but produced its output", "stage", s.name, "exit_code", res.ExitCode)
	}

	state.Status = types.StageSucceeded
	logger.Info("stage succeeded", "stage", s.name, "output", s.output, "duration", res.Duration)
	return nil
}
