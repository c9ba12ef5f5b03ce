//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Volumes lists the volumes this machine reports and which of them are swept.
func Volumes() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "volumes")
}

// Locate prints where the converter and renderer were found.
func Locate() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "locate")
}

// Scan prints the catalog of drawings under the current directory.
func Scan() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "scan", "--root", ".")
}
