// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"strings"
)

// DocumentEntry is one discovered input drawing.
type DocumentEntry struct {
	// Path is the absolute path to the drawing file.
	Path string `json:"path" yaml:"path"`

	// Dir is the directory containing the file.
	Dir string `json:"dir" yaml:"dir"`

	// Name is the base filename including extension.
	Name string `json:"name" yaml:"name"`
}

// NewDocumentEntry builds an entry from an absolute file path.
func NewDocumentEntry(path string) DocumentEntry {
	return DocumentEntry{
		Path: path,
		Dir:  filepath.Dir(path),
		Name: filepath.Base(path),
	}
}

// Stem returns the filename without its extension.
func (d DocumentEntry) Stem() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}
