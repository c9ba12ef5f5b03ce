// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build linux || darwin || freebsd

package volume

import "golang.org/x/sys/unix"

func capacity(root string) error {
	var st unix.Statfs_t
	return unix.Statfs(root, &st)
}
