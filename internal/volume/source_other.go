// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !linux && !windows

package volume

import "github.com/pdiddy/dwgview/pkg/types"

// rootSource reports the filesystem root as the only volume.
type rootSource struct{}

func platformSource() Source {
	return rootSource{}
}

func (rootSource) Candidates() ([]types.Volume, error) {
	return []types.Volume{{Root: "/", Kind: types.MediumFixed}}, nil
}
