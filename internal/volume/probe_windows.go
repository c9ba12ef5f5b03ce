// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build windows

package volume

import "golang.org/x/sys/windows"

func capacity(root string) error {
	p, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return err
	}
	var free, total, totalFree uint64
	return windows.GetDiskFreeSpaceEx(p, &free, &total, &totalFree)
}
