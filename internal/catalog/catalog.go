// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog groups discovered drawings by directory and assigns the
// 1-based numbers the user selects from.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/dwgview/pkg/types"
)

// ErrNoDocuments indicates the sweep found nothing to offer. It ends the run
// normally.
var ErrNoDocuments = errors.New("no documents found")

// Item is one numbered catalog entry.
type Item struct {
	Index int                 `json:"index" yaml:"index"`
	Entry types.DocumentEntry `json:"entry" yaml:"entry"`
}

// Group holds the entries of one directory.
type Group struct {
	Dir   string `json:"dir" yaml:"dir"`
	Items []Item `json:"items" yaml:"items"`
}

// Listing is the serializable form of a catalog.
type Listing struct {
	Total  int     `json:"total" yaml:"total"`
	Groups []Group `json:"groups" yaml:"groups"`
}

// Catalog is an immutable, numbered grouping of documents. Index i always
// resolves to the entry shown next to i in the rendered listing.
type Catalog struct {
	groups []Group
	flat   []types.DocumentEntry
}

// Build groups entries by directory. Directories are ordered
// lexicographically and entries within a directory by filename; numbering
// follows that display order. Duplicate paths are dropped.
func Build(entries []types.DocumentEntry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrNoDocuments
	}

	sorted := make([]types.DocumentEntry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Dir != sorted[j].Dir {
			return sorted[i].Dir < sorted[j].Dir
		}
		return sorted[i].Name < sorted[j].Name
	})

	c := &Catalog{flat: sorted}
	for i, e := range sorted {
		if len(c.groups) == 0 || c.groups[len(c.groups)-1].Dir != e.Dir {
			c.groups = append(c.groups, Group{Dir: e.Dir})
		}
		g := &c.groups[len(c.groups)-1]
		g.Items = append(g.Items, Item{Index: i + 1, Entry: e})
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.flat) }

// Entry returns the entry numbered i (1-based).
func (c *Catalog) Entry(i int) (types.DocumentEntry, bool) {
	if i < 1 || i > len(c.flat) {
		return types.DocumentEntry{}, false
	}
	return c.flat[i-1], true
}

// Groups returns the directory groups in display order.
func (c *Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = Group{Dir: g.Dir, Items: append([]Item(nil), g.Items...)}
	}
	return out
}

// Export returns the catalog in serializable form.
func (c *Catalog) Export() Listing {
	return Listing{Total: c.Len(), Groups: c.Groups()}
}

// Render writes the numbered listing to w. Styling is dropped when w is not
// a terminal.
func (c *Catalog) Render(w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Foreground(lipgloss.Color("#74c7ec")).Bold(true)
	number := r.NewStyle().Foreground(lipgloss.Color("#fab387")).Width(5).Align(lipgloss.Right)
	muted := r.NewStyle().Foreground(lipgloss.Color("#a6adc8"))

	if _, err := fmt.Fprintf(w, "Found %d drawing(s) in %d folder(s)\n", c.Len(), len(c.groups)); err != nil {
		return err
	}
	for _, g := range c.groups {
		if _, err := fmt.Fprintf(w, "\n%s\n", header.Render(g.Dir)); err != nil {
			return err
		}
		for _, it := range g.Items {
			line := fmt.Sprintf("%s  %s", number.Render(fmt.Sprintf("%d.", it.Index)), it.Entry.Name)
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", muted.Render("   0.  exit"))
	return err
}
