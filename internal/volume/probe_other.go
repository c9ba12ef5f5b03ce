// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !linux && !darwin && !freebsd && !windows

package volume

import "os"

func capacity(root string) error {
	_, err := os.Stat(root)
	return err
}
