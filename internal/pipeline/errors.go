// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"

	"github.com/pdiddy/dwgview/pkg/types"
)

var (
	// ErrProcessLaunch indicates a stage's tool could not be started.
	ErrProcessLaunch = errors.New("process launch failed")

	// ErrStageTimeout indicates a stage did not finish within its bound.
	ErrStageTimeout = errors.New("stage timed out")

	// ErrStageVerification indicates a stage exited without producing a
	// usable output: a non-zero exit or a missing output file.
	ErrStageVerification = errors.New("stage verification failed")
)

// ErrorKind classifies a stage failure.
type ErrorKind string

const (
	KindLaunch        ErrorKind = "launch"
	KindTimeout       ErrorKind = "timeout"
	KindExit          ErrorKind = "exit"
	KindMissingOutput ErrorKind = "missing-output"
	KindInterrupted   ErrorKind = "interrupted"
)

// StageError reports which stage failed and how. errors.Is matches the
// package sentinel for its Kind; the underlying cause is reachable through
// Unwrap.
type StageError struct {
	Stage    types.StageName
	Kind     ErrorKind
	ExitCode int

	// Path is the output file that was expected, set for missing-output.
	Path string
	Err  error
}

func (e *StageError) Error() string {
	switch e.Kind {
	case KindExit:
		return fmt.Sprintf("%s stage: exited with code %d", e.Stage, e.ExitCode)
	case KindMissingOutput:
		return fmt.Sprintf("%s stage: output %s not produced (exit code %d)", e.Stage, e.Path, e.ExitCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s stage: %s: %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s stage: %s", e.Stage, e.Kind)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is maps the failure kind onto the package sentinels.
func (e *StageError) Is(target error) bool {
	switch target {
	case ErrProcessLaunch:
		return e.Kind == KindLaunch
	case ErrStageTimeout:
		return e.Kind == KindTimeout
	case ErrStageVerification:
		return e.Kind == KindExit || e.Kind == KindMissingOutput
	}
	return false
}
