// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MediumKind classifies the storage medium behind a volume.
type MediumKind string

const (
	MediumFixed     MediumKind = "fixed"
	MediumRemovable MediumKind = "removable"
	MediumOther     MediumKind = "other"
)

// Scannable reports whether volumes of this kind are eligible for scanning.
// Only fixed and removable media are scanned.
func (k MediumKind) Scannable() bool {
	return k == MediumFixed || k == MediumRemovable
}

// Volume is an addressable storage root such as a drive letter or a mount point.
type Volume struct {
	// Root is the absolute path of the volume root (e.g. "C:\\" or "/media/usb").
	Root string `json:"root" yaml:"root"`

	// Kind is the medium kind reported by the platform.
	Kind MediumKind `json:"kind" yaml:"kind"`
}
