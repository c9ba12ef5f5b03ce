// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package process runs external tools as blocking calls with an upper bound:
// spawn, wait until exit or timeout, and force-terminate on expiry.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// ErrLaunch reports that the process could not be started at all.
var ErrLaunch = errors.New("process launch failed")

const defaultKillGrace = 5 * time.Second

// Command describes one external process invocation.
type Command struct {
	// Argv is the program followed by its arguments.
	Argv []string

	// Dir is the working directory; empty means the caller's.
	Dir string

	// Timeout bounds the wait; zero means no bound.
	Timeout time.Duration

	Stdout io.Writer
	Stderr io.Writer
}

// Result is the observed outcome of a process that was started.
type Result struct {
	// ExitCode is the process exit status, -1 if it was killed or did not
	// exit normally.
	ExitCode int

	Duration time.Duration

	// TimedOut is set when the bound elapsed and the process was terminated.
	TimedOut bool

	// KillErr is non-nil when terminating a timed-out or interrupted process
	// failed. The process may still be running.
	KillErr error
}

// Runner executes a command and blocks until it exits or its bound elapses.
// A non-nil error means the process never started (wrapping ErrLaunch) or the
// caller's context ended first; exit codes and timeouts are reported in Result.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// OSRunner is the production Runner backed by os/exec.
type OSRunner struct {
	// KillGrace bounds the wait for a terminated process to be reaped and for
	// its output pipes to close (default 5s).
	KillGrace time.Duration
}

// NewRunner returns an OSRunner with default settings.
func NewRunner() *OSRunner {
	return &OSRunner{KillGrace: defaultKillGrace}
}

func (r *OSRunner) grace() time.Duration {
	if r.KillGrace > 0 {
		return r.KillGrace
	}
	return defaultKillGrace
}

func (r *OSRunner) Run(ctx context.Context, c Command) (Result, error) {
	if len(c.Argv) == 0 {
		return Result{ExitCode: -1}, fmt.Errorf("%w: empty command line", ErrLaunch)
	}
	if err := ctx.Err(); err != nil {
		return Result{ExitCode: -1}, err
	}

	cmd := exec.Command(c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.WaitDelay = r.grace()
	setProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("%w: starting %s: %w", ErrLaunch, c.Argv[0], err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var expired <-chan time.Time
	if c.Timeout > 0 {
		timer := time.NewTimer(c.Timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-done:
		return Result{ExitCode: exitCode(cmd), Duration: time.Since(start)}, nil

	case <-expired:
		killErr := r.terminate(cmd, done)
		return Result{
			ExitCode: -1,
			Duration: time.Since(start),
			TimedOut: true,
			KillErr:  killErr,
		}, nil

	case <-ctx.Done():
		killErr := r.terminate(cmd, done)
		res := Result{ExitCode: -1, Duration: time.Since(start), KillErr: killErr}
		return res, fmt.Errorf("waiting for %s: %w", c.Argv[0], ctx.Err())
	}
}

// terminate kills the process (and its group where supported) and waits a
// bounded time for it to be reaped.
func (r *OSRunner) terminate(cmd *exec.Cmd, done <-chan error) error {
	killErr := killProcess(cmd)
	if errors.Is(killErr, os.ErrProcessDone) {
		killErr = nil
	}

	select {
	case <-done:
	case <-time.After(r.grace()):
		return errors.Join(killErr, fmt.Errorf("process %d not reaped within %s", cmd.Process.Pid, r.grace()))
	}
	if killErr != nil {
		return fmt.Errorf("killing process %d: %w", cmd.Process.Pid, killErr)
	}
	return nil
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}
