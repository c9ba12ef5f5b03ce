// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dwgview/internal/process"
	"github.com/pdiddy/dwgview/pkg/types"
)

type step func(cmd process.Command) (process.Result, error)

// fakeRunner plays back one step per call and records the commands.
type fakeRunner struct {
	steps []step
	calls []process.Command
}

func (f *fakeRunner) Run(_ context.Context, cmd process.Command) (process.Result, error) {
	f.calls = append(f.calls, cmd)
	i := len(f.calls) - 1
	if i >= len(f.steps) {
		return process.Result{}, fmt.Errorf("unexpected call %d", i+1)
	}
	return f.steps[i](cmd)
}

// converts writes the DXF the converter would produce and exits with code.
func converts(code int) step {
	return func(cmd process.Command) (process.Result, error) {
		outDir, name := cmd.Argv[2], cmd.Argv[len(cmd.Argv)-1]
		stem := name[:len(name)-len(filepath.Ext(name))]
		if err := os.WriteFile(filepath.Join(outDir, stem+".dxf"), []byte("0\nEOF\n"), 0o644); err != nil {
			return process.Result{}, err
		}
		fmt.Fprintln(cmd.Stdout, "Loading drawing")
		return process.Result{ExitCode: code, Duration: time.Millisecond}, nil
	}
}

// renders writes a two-page PDF at the final path and exits 0.
func renders(cmd process.Command) (process.Result, error) {
	if err := os.WriteFile(cmd.Argv[len(cmd.Argv)-1], minimalPDF(2), 0o644); err != nil {
		return process.Result{}, err
	}
	fmt.Fprintln(cmd.Stderr, "Rendering entities")
	return process.Result{ExitCode: 0, Duration: time.Millisecond}, nil
}

func exits(code int) step {
	return func(process.Command) (process.Result, error) {
		return process.Result{ExitCode: code}, nil
	}
}

func timesOut(process.Command) (process.Result, error) {
	return process.Result{ExitCode: -1, TimedOut: true}, nil
}

// minimalPDF returns a valid PDF with the given number of blank pages.
func minimalPDF(pages int) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}
	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for range pages {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return b.Bytes()
}

type fixture struct {
	doc   types.DocumentEntry
	tools types.Tools
	cfg   types.Config
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.dwg")
	require.NoError(t, os.WriteFile(path, []byte("AC1024"), 0o644))
	return fixture{
		doc: types.NewDocumentEntry(path),
		tools: types.Tools{
			Converter: types.ToolLocation{Path: "/opt/oda/ODAFileConverter", WorkDir: "/opt/oda"},
			Renderer:  types.ToolLocation{Path: "/work/dxf_renderer.py", Launcher: []string{"/usr/bin/python3"}},
		},
		cfg: types.DefaultConfig(),
	}
}

func (f fixture) orchestrator(r process.Runner, out *bytes.Buffer) *Orchestrator {
	var w io.Writer
	if out != nil {
		w = out
	}
	return New(Options{Convert: f.cfg.Convert, Render: f.cfg.Render, Runner: r, Output: w})
}

func TestRunSucceeds(t *testing.T) {
	f := newFixture(t)
	r := &fakeRunner{steps: []step{converts(0), renders}}
	var out bytes.Buffer

	run, err := f.orchestrator(r, &out).Run(context.Background(), f.doc, f.tools)
	require.NoError(t, err)
	require.True(t, run.Succeeded())
	assert.NotEmpty(t, run.ID)
	assert.Nil(t, run.FailedStage())
	assert.Equal(t, 2, run.PageCount)

	dxfDir := filepath.Join(f.doc.Dir, "convertedDXF")
	wantDXF := filepath.Join(dxfDir, "plan.dxf")
	wantPDF := filepath.Join(f.doc.Dir, "convertedPDF", "plan.pdf")
	assert.Equal(t, wantDXF, run.IntermediatePath)
	assert.Equal(t, wantPDF, run.FinalPath)

	require.Len(t, r.calls, 2)
	assert.Equal(t, []string{
		"/opt/oda/ODAFileConverter", f.doc.Dir, dxfDir, "ACAD2010", "DXF", "0", "1", "plan.dwg",
	}, r.calls[0].Argv)
	assert.Equal(t, "/opt/oda", r.calls[0].Dir)
	assert.Equal(t, 2*time.Minute, r.calls[0].Timeout)
	assert.Equal(t, []string{"/usr/bin/python3", "/work/dxf_renderer.py", wantDXF, wantPDF}, r.calls[1].Argv)
	assert.Equal(t, 5*time.Minute, r.calls[1].Timeout)

	assert.Contains(t, out.String(), "[convert] Loading drawing\n")
	assert.Contains(t, out.String(), "[render] Rendering entities\n")
}

func TestRunRenderFailsKeepsIntermediate(t *testing.T) {
	f := newFixture(t)
	r := &fakeRunner{steps: []step{converts(0), exits(2)}}

	run, err := f.orchestrator(r, nil).Run(context.Background(), f.doc, f.tools)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStageVerification)

	var serr *StageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, types.StageRender, serr.Stage)
	assert.Equal(t, KindExit, serr.Kind)
	assert.Equal(t, 2, serr.ExitCode)

	require.NotNil(t, run.FailedStage())
	assert.Equal(t, types.StageRender, run.FailedStage().Name)
	assert.Equal(t, types.StageSucceeded, run.Stage(types.StageConvert).Status)
	assert.FileExists(t, run.IntermediatePath)
}

func TestRunStageFailures(t *testing.T) {
	launchErr := fmt.Errorf("%w: starting ODAFileConverter: no such file", process.ErrLaunch)

	tests := []struct {
		name      string
		steps     []step
		wantStage types.StageName
		wantKind  ErrorKind
		wantIs    error
		wantCalls int
	}{
		{
			name:      "converter exits 0 without output",
			steps:     []step{exits(0)},
			wantStage: types.StageConvert,
			wantKind:  KindMissingOutput,
			wantIs:    ErrStageVerification,
			wantCalls: 1,
		},
		{
			name:      "converter times out",
			steps:     []step{timesOut},
			wantStage: types.StageConvert,
			wantKind:  KindTimeout,
			wantIs:    ErrStageTimeout,
			wantCalls: 1,
		},
		{
			name:      "converter cannot start",
			steps:     []step{func(process.Command) (process.Result, error) { return process.Result{ExitCode: -1}, launchErr }},
			wantStage: types.StageConvert,
			wantKind:  KindLaunch,
			wantIs:    ErrProcessLaunch,
			wantCalls: 1,
		},
		{
			name:      "renderer exits 0 without output",
			steps:     []step{converts(0), exits(0)},
			wantStage: types.StageRender,
			wantKind:  KindMissingOutput,
			wantIs:    ErrStageVerification,
			wantCalls: 2,
		},
		{
			name:      "renderer times out",
			steps:     []step{converts(0), timesOut},
			wantStage: types.StageRender,
			wantKind:  KindTimeout,
			wantIs:    ErrStageTimeout,
			wantCalls: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			r := &fakeRunner{steps: tt.steps}

			run, err := f.orchestrator(r, nil).Run(context.Background(), f.doc, f.tools)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)

			var serr *StageError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.wantStage, serr.Stage)
			assert.Equal(t, tt.wantKind, serr.Kind)
			assert.Len(t, r.calls, tt.wantCalls)

			require.NotNil(t, run)
			assert.Equal(t, tt.wantStage, run.FailedStage().Name)
			assert.NotEmpty(t, run.FailedStage().Reason)
			if tt.wantStage == types.StageConvert {
				assert.Equal(t, types.StagePending, run.Stage(types.StageRender).Status, "render must not run")
			}
		})
	}
}

func TestRunLaunchErrorKeepsCause(t *testing.T) {
	f := newFixture(t)
	r := &fakeRunner{steps: []step{func(process.Command) (process.Result, error) {
		return process.Result{ExitCode: -1}, fmt.Errorf("%w: starting: denied", process.ErrLaunch)
	}}}

	_, err := f.orchestrator(r, nil).Run(context.Background(), f.doc, f.tools)
	assert.ErrorIs(t, err, process.ErrLaunch)
	assert.NotErrorIs(t, err, ErrStageTimeout)
}

func TestRunConverterNonZeroWithOutputSucceeds(t *testing.T) {
	f := newFixture(t)
	r := &fakeRunner{steps: []step{converts(1), renders}}

	run, err := f.orchestrator(r, nil).Run(context.Background(), f.doc, f.tools)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Stage(types.StageConvert).ExitCode)
	assert.True(t, run.Succeeded())
}

func TestRunInterrupted(t *testing.T) {
	f := newFixture(t)
	r := &fakeRunner{steps: []step{func(process.Command) (process.Result, error) {
		return process.Result{ExitCode: -1}, fmt.Errorf("waiting for ODAFileConverter: %w", context.Canceled)
	}}}

	_, err := f.orchestrator(r, nil).Run(context.Background(), f.doc, f.tools)
	var serr *StageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, KindInterrupted, serr.Kind)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrStageVerification)
}

func TestRunUnreadablePDFIsNotFatal(t *testing.T) {
	f := newFixture(t)
	garbage := func(cmd process.Command) (process.Result, error) {
		return process.Result{}, os.WriteFile(cmd.Argv[len(cmd.Argv)-1], []byte("not a pdf"), 0o644)
	}
	r := &fakeRunner{steps: []step{converts(0), garbage}}

	run, err := f.orchestrator(r, nil).Run(context.Background(), f.doc, f.tools)
	require.NoError(t, err)
	assert.Zero(t, run.PageCount)
}

func TestRunCreatesOutputDirs(t *testing.T) {
	f := newFixture(t)
	r := &fakeRunner{steps: []step{converts(0), exits(1)}}

	_, _ = f.orchestrator(r, nil).Run(context.Background(), f.doc, f.tools)
	assert.DirExists(t, filepath.Join(f.doc.Dir, "convertedDXF"))
	assert.DirExists(t, filepath.Join(f.doc.Dir, "convertedPDF"))
}

func TestLayoutFor(t *testing.T) {
	cfg := types.DefaultConfig()
	doc := types.NewDocumentEntry(filepath.FromSlash("/d/site plan.v2.DWG"))

	l := LayoutFor(doc, cfg.Convert, cfg.Render)
	assert.Equal(t, filepath.FromSlash("/d/convertedDXF/site plan.v2.dxf"), l.IntermediatePath)
	assert.Equal(t, filepath.FromSlash("/d/convertedPDF/site plan.v2.pdf"), l.FinalPath)
}

func TestStageErrorMessages(t *testing.T) {
	tests := []struct {
		err  *StageError
		want string
	}{
		{&StageError{Stage: types.StageRender, Kind: KindExit, ExitCode: 3}, "render stage: exited with code 3"},
		{&StageError{Stage: types.StageConvert, Kind: KindTimeout, Err: errors.New("no exit after 2m0s")}, "convert stage: timeout: no exit after 2m0s"},
		{&StageError{Stage: types.StageConvert, Kind: KindMissingOutput, Path: "/d/x.dxf"}, "convert stage: output /d/x.dxf not produced (exit code 0)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}
