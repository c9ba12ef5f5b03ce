// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"path/filepath"

	"github.com/pdiddy/dwgview/pkg/types"
)

// Layout is the set of paths one run reads and writes. Outputs live in
// fixed subdirectories next to the source drawing:
//
//	D/name.dwg -> D/convertedDXF/name.dxf -> D/convertedPDF/name.pdf
type Layout struct {
	IntermediateDir  string
	IntermediatePath string
	FinalDir         string
	FinalPath        string
}

// LayoutFor computes the output paths for doc.
func LayoutFor(doc types.DocumentEntry, conv types.ConvertConfig, rend types.RenderConfig) Layout {
	stem := doc.Stem()
	l := Layout{
		IntermediateDir: filepath.Join(doc.Dir, conv.OutputDir),
		FinalDir:        filepath.Join(doc.Dir, rend.OutputDir),
	}
	l.IntermediatePath = filepath.Join(l.IntermediateDir, stem+conv.OutputExt)
	l.FinalPath = filepath.Join(l.FinalDir, stem+rend.OutputExt)
	return l
}
