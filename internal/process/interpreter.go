// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package process

import (
	"fmt"
	"os/exec"
	"strings"
)

// interpreterCandidates are tried in order when no interpreter is configured.
var interpreterCandidates = []string{"python3", "python", "py"}

// executor abstracts command lookup for testing.
type executor interface {
	LookPath(file string) (string, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

var defaultExec = &osExecutor{}

// DetectInterpreter returns the argv prefix used to run a Python script.
// A non-empty preferred value (e.g. "py -3" or "/usr/bin/python3.12") is used
// as given once its program is found; otherwise python3, python and py are
// tried in that order. Detection only searches PATH and never starts a
// process; an interpreter that is present but broken fails the render stage.
func DetectInterpreter(preferred string) ([]string, error) {
	return detectInterpreter(defaultExec, preferred)
}

func detectInterpreter(exec executor, preferred string) ([]string, error) {
	if fields := strings.Fields(preferred); len(fields) > 0 {
		if argv, ok := resolveInterpreter(exec, fields); ok {
			return argv, nil
		}
		return nil, fmt.Errorf("configured interpreter %q not found", preferred)
	}

	for _, name := range interpreterCandidates {
		if argv, ok := resolveInterpreter(exec, []string{name}); ok {
			return argv, nil
		}
	}
	return nil, fmt.Errorf(
		"no Python interpreter available: none of %s found on PATH",
		strings.Join(interpreterCandidates, ", "),
	)
}

func resolveInterpreter(exec executor, argv []string) ([]string, bool) {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, false
	}
	return append([]string{path}, argv[1:]...), true
}
