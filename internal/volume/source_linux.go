// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build linux

package volume

import (
	"fmt"
	"os"

	"github.com/pdiddy/dwgview/pkg/types"
)

const mountTable = "/proc/self/mounts"

// mountSource lists mount points from the kernel mount table.
type mountSource struct {
	path string
}

func platformSource() Source {
	return mountSource{path: mountTable}
}

func (s mountSource) Candidates() ([]types.Volume, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening mount table %s: %w", s.path, err)
	}
	defer f.Close()
	return parseMounts(f)
}
