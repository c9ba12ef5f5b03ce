// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build windows

package volume

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/pdiddy/dwgview/pkg/types"
)

// driveSource lists the logical drives A: through Z:.
type driveSource struct{}

func platformSource() Source {
	return driveSource{}
}

func (driveSource) Candidates() ([]types.Volume, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, fmt.Errorf("listing logical drives: %w", err)
	}

	var vols []types.Volume
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		root := string(rune('A'+i)) + `:\`
		p, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}
		vols = append(vols, types.Volume{Root: root, Kind: driveKind(windows.GetDriveType(p))})
	}
	return vols, nil
}

func driveKind(driveType uint32) types.MediumKind {
	switch driveType {
	case windows.DRIVE_FIXED:
		return types.MediumFixed
	case windows.DRIVE_REMOVABLE:
		return types.MediumRemovable
	default:
		return types.MediumOther
	}
}
