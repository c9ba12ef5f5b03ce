// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package volume enumerates the storage volumes eligible for scanning.
// Platform enumeration (drive letters on Windows, mount points elsewhere)
// sits behind the Source interface; the Enumerator applies the eligibility
// rules: fixed or removable medium, and a successful capacity query.
package volume

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pdiddy/dwgview/internal/logging"
	"github.com/pdiddy/dwgview/pkg/types"
)

// Source lists the candidate volumes of the current machine, eligible or not.
type Source interface {
	Candidates() ([]types.Volume, error)
}

// ProbeFunc performs a capacity query against a volume root. A nil return
// means the volume is mounted and readable.
type ProbeFunc func(root string) error

// Inventory is the result of one enumeration.
type Inventory struct {
	// Volumes are the eligible volumes in enumeration order.
	Volumes []types.Volume

	// all holds every candidate root, used to keep sweeps from crossing into
	// other mounts.
	all []string
}

// Roots returns the root paths of the eligible volumes.
func (inv Inventory) Roots() []string {
	roots := make([]string, len(inv.Volumes))
	for i, v := range inv.Volumes {
		roots[i] = v.Root
	}
	return roots
}

// PruneFor returns the roots of other candidate volumes mounted strictly
// inside root. A sweep of root skips them: eligible ones are swept on their
// own, ineligible ones (pseudo or network filesystems) never.
func (inv Inventory) PruneFor(root string) []string {
	var pruned []string
	for _, r := range inv.all {
		if r != root && within(root, r) {
			pruned = append(pruned, r)
		}
	}
	return pruned
}

// Excluded returns the roots of ineligible candidates mounted strictly inside
// root. A sweep of an explicit directory skips them but still descends into
// eligible volumes mounted below it.
func (inv Inventory) Excluded(root string) []string {
	eligible := make(map[string]bool, len(inv.Volumes))
	for _, v := range inv.Volumes {
		eligible[v.Root] = true
	}
	var out []string
	for _, r := range inv.PruneFor(root) {
		if !eligible[r] {
			out = append(out, r)
		}
	}
	return out
}

// Enumerator lists eligible volumes. It never fails: volumes that cannot be
// listed or probed are omitted.
type Enumerator struct {
	source Source
	probe  ProbeFunc
	logger *slog.Logger
}

// NewEnumerator returns an enumerator backed by the platform volume source
// and capacity query.
func NewEnumerator(logger *slog.Logger) *Enumerator {
	return newEnumerator(platformSource(), capacity, logger)
}

func newEnumerator(src Source, probe ProbeFunc, logger *slog.Logger) *Enumerator {
	return &Enumerator{source: src, probe: probe, logger: logging.OrDiscard(logger)}
}

// List returns the eligible volumes.
func (e *Enumerator) List(ctx context.Context) []types.Volume {
	return e.Inventory(ctx).Volumes
}

// Candidates returns every volume the source reports, without filtering.
func (e *Enumerator) Candidates() []types.Volume {
	vols, err := e.source.Candidates()
	if err != nil {
		e.logger.Debug("volume source failed", "error", err)
		return nil
	}
	return dedupe(vols)
}

// Inventory enumerates candidates once and splits out the eligible volumes.
func (e *Enumerator) Inventory(ctx context.Context) Inventory {
	candidates := e.Candidates()

	inv := Inventory{all: make([]string, 0, len(candidates))}
	for _, v := range candidates {
		inv.all = append(inv.all, v.Root)
		if ctx.Err() != nil {
			continue
		}
		if !v.Kind.Scannable() {
			e.logger.Debug("skipping volume", "root", v.Root, "kind", v.Kind)
			continue
		}
		if err := e.probe(v.Root); err != nil {
			e.logger.Debug("volume not responding", "root", v.Root, "error", err)
			continue
		}
		inv.Volumes = append(inv.Volumes, v)
	}
	return inv
}

// dedupe drops repeated roots, keeping the first occurrence.
func dedupe(vols []types.Volume) []types.Volume {
	seen := make(map[string]bool, len(vols))
	out := make([]types.Volume, 0, len(vols))
	for _, v := range vols {
		if v.Root == "" || seen[v.Root] {
			continue
		}
		seen[v.Root] = true
		out = append(out, v)
	}
	return out
}

// within reports whether path lies inside (or at) root.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
