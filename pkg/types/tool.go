// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "runtime"

// ToolLocation is the resolved location of one external tool.
type ToolLocation struct {
	// Path is the absolute path to the executable or script.
	Path string `json:"path" yaml:"path"`

	// WorkDir is the working directory the tool is started in.
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// Launcher is the argv prefix used to start a script (e.g. ["python3"]).
	// Empty for native executables.
	Launcher []string `json:"launcher,omitempty" yaml:"launcher,omitempty"`
}

// IsZero reports whether the location has not been resolved.
func (t ToolLocation) IsZero() bool {
	return t.Path == ""
}

// Argv returns the command line that starts the tool with args appended.
func (t ToolLocation) Argv(args ...string) []string {
	argv := make([]string, 0, len(t.Launcher)+1+len(args))
	argv = append(argv, t.Launcher...)
	argv = append(argv, t.Path)
	argv = append(argv, args...)
	return argv
}

// Tools is the pair of external tools the pipeline depends on.
type Tools struct {
	// Converter turns DWG drawings into DXF (ODA File Converter).
	Converter ToolLocation `json:"converter" yaml:"converter"`

	// Renderer turns DXF into PDF (dxf_renderer.py).
	Renderer ToolLocation `json:"renderer" yaml:"renderer"`
}

// DefaultConverterName returns the ODA File Converter executable name for the
// current platform.
func DefaultConverterName() string {
	if runtime.GOOS == "windows" {
		return "ODAFileConverter.exe"
	}
	return "ODAFileConverter"
}
