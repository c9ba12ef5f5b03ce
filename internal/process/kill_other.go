// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !unix

package process

import "os/exec"

func setProcessGroup(*exec.Cmd) {}

func killProcess(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
