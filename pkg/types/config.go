package types

import (
	"errors"
	"fmt"
	"time"
)

// ScanConfig holds settings for volume sweeps.
type ScanConfig struct {
	// SkipDirs lists directory names never descended into (case-sensitive exact match).
	SkipDirs []string `json:"skip_dirs" yaml:"skip_dirs" mapstructure:"skip_dirs"`

	// Extension is the document extension to discover (default ".dwg").
	Extension string `json:"extension" yaml:"extension" mapstructure:"extension"`

	// Roots narrows the document sweep to these directories. Empty means every
	// eligible volume.
	Roots []string `json:"roots,omitempty" yaml:"roots,omitempty" mapstructure:"roots"`

	// Parallel scans volumes concurrently; results are sorted afterwards.
	Parallel bool `json:"parallel" yaml:"parallel" mapstructure:"parallel"`

	// Workers bounds concurrent volume scans when Parallel is set (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// ToolsConfig holds settings for locating the external tools.
type ToolsConfig struct {
	// ConverterName is the converter executable filename.
	ConverterName string `json:"converter_name" yaml:"converter_name" mapstructure:"converter_name"`

	// ConverterPath is an explicit converter location checked before any search.
	ConverterPath string `json:"converter_path,omitempty" yaml:"converter_path,omitempty" mapstructure:"converter_path"`

	// Signatures are sibling files, at least one of which must sit next to a
	// converter found by a volume sweep.
	Signatures []string `json:"signatures" yaml:"signatures" mapstructure:"signatures"`

	// InstallDirs are volume-relative directories checked before a full sweep.
	InstallDirs []string `json:"install_dirs" yaml:"install_dirs" mapstructure:"install_dirs"`

	// RendererName is the renderer script filename.
	RendererName string `json:"renderer_name" yaml:"renderer_name" mapstructure:"renderer_name"`

	// RendererPath is an explicit renderer location checked before any search.
	RendererPath string `json:"renderer_path,omitempty" yaml:"renderer_path,omitempty" mapstructure:"renderer_path"`

	// Interpreter starts the renderer script. Empty means auto-detect.
	Interpreter string `json:"interpreter,omitempty" yaml:"interpreter,omitempty" mapstructure:"interpreter"`
}

// ConvertConfig holds settings for stage 1 (DWG to DXF).
type ConvertConfig struct {
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// OutputVersion is the converter's target version directive (e.g. "ACAD2010").
	OutputVersion string `json:"output_version" yaml:"output_version" mapstructure:"output_version"`

	// OutputFormat is the converter's target format directive (e.g. "DXF").
	OutputFormat string `json:"output_format" yaml:"output_format" mapstructure:"output_format"`

	// Recurse and Audit are passed verbatim as the converter's "0"/"1" flags.
	Recurse string `json:"recurse" yaml:"recurse" mapstructure:"recurse"`
	Audit   string `json:"audit" yaml:"audit" mapstructure:"audit"`

	// OutputDir is the subdirectory created next to the input for DXF output.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// OutputExt is the extension of the converted file.
	OutputExt string `json:"output_ext" yaml:"output_ext" mapstructure:"output_ext"`
}

// RenderConfig holds settings for stage 2 (DXF to PDF).
type RenderConfig struct {
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// OutputDir is the subdirectory created next to the input for PDF output.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// OutputExt is the extension of the rendered file.
	OutputExt string `json:"output_ext" yaml:"output_ext" mapstructure:"output_ext"`
}

// Config groups all settings for one invocation.
type Config struct {
	LogLevel string        `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Scan     ScanConfig    `json:"scan" yaml:"scan" mapstructure:"scan"`
	Tools    ToolsConfig   `json:"tools" yaml:"tools" mapstructure:"tools"`
	Convert  ConvertConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	Render   RenderConfig  `json:"render" yaml:"render" mapstructure:"render"`
}

// DefaultSkipDirs are directory names excluded from every sweep.
var DefaultSkipDirs = []string{
	"Windows",
	"ProgramData",
	"$Recycle.Bin",
	"System Volume Information",
	"Recovery",
}

// DefaultConfig returns the settings used when no config file or flag overrides them.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Scan: ScanConfig{
			SkipDirs:  append([]string(nil), DefaultSkipDirs...),
			Extension: ".dwg",
			Workers:   4,
		},
		Tools: ToolsConfig{
			ConverterName: DefaultConverterName(),
			Signatures:    []string{"TD_Db.dll", "TG_Db.dll", "TD_Root.dll"},
			InstallDirs: []string{
				"Program Files/ODA/ODAFileConverter",
				"Program Files (x86)/ODA/ODAFileConverter",
				"ODA/ODAFileConverter",
				"opt/ODAFileConverter",
			},
			RendererName: "dxf_renderer.py",
		},
		Convert: ConvertConfig{
			Timeout:       2 * time.Minute,
			OutputVersion: "ACAD2010",
			OutputFormat:  "DXF",
			Recurse:       "0",
			Audit:         "1",
			OutputDir:     "convertedDXF",
			OutputExt:     ".dxf",
		},
		Render: RenderConfig{
			Timeout:   5 * time.Minute,
			OutputDir: "convertedPDF",
			OutputExt: ".pdf",
		},
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Scan.Extension == "" {
		return errors.New("config scan.extension is required")
	}
	if c.Tools.ConverterName == "" {
		return errors.New("config tools.converter_name is required")
	}
	if c.Tools.RendererName == "" {
		return errors.New("config tools.renderer_name is required")
	}
	if c.Convert.Timeout <= 0 {
		return fmt.Errorf("config convert.timeout must be positive, got %s", c.Convert.Timeout)
	}
	if c.Render.Timeout <= 0 {
		return fmt.Errorf("config render.timeout must be positive, got %s", c.Render.Timeout)
	}
	if c.Convert.OutputDir == "" || c.Render.OutputDir == "" {
		return errors.New("config output directories are required")
	}
	if c.Convert.OutputExt == "" || c.Render.OutputExt == "" {
		return errors.New("config output extensions are required")
	}
	return nil
}
