// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package volume

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dwgview/pkg/types"
)

// fakeSource returns a fixed candidate list or an error.
type fakeSource struct {
	vols []types.Volume
	err  error
}

func (f fakeSource) Candidates() ([]types.Volume, error) {
	return f.vols, f.err
}

// probeFails builds a probe that fails for the listed roots.
func probeFails(roots ...string) ProbeFunc {
	dead := make(map[string]bool, len(roots))
	for _, r := range roots {
		dead[r] = true
	}
	return func(root string) error {
		if dead[root] {
			return errors.New("device not ready")
		}
		return nil
	}
}

func TestEnumeratorList(t *testing.T) {
	tests := []struct {
		name  string
		src   fakeSource
		probe ProbeFunc
		want  []string
	}{
		{
			name: "keeps fixed and removable in source order",
			src: fakeSource{vols: []types.Volume{
				{Root: "D:\\", Kind: types.MediumRemovable},
				{Root: "C:\\", Kind: types.MediumFixed},
			}},
			probe: probeFails(),
			want:  []string{"D:\\", "C:\\"},
		},
		{
			name: "excludes other medium kinds",
			src: fakeSource{vols: []types.Volume{
				{Root: "C:\\", Kind: types.MediumFixed},
				{Root: "E:\\", Kind: types.MediumOther},
				{Root: "Z:\\", Kind: types.MediumKind("remote")},
			}},
			probe: probeFails(),
			want:  []string{"C:\\"},
		},
		{
			name: "omits volumes failing the capacity query",
			src: fakeSource{vols: []types.Volume{
				{Root: "C:\\", Kind: types.MediumFixed},
				{Root: "F:\\", Kind: types.MediumRemovable},
			}},
			probe: probeFails("F:\\"),
			want:  []string{"C:\\"},
		},
		{
			name:  "source failure yields nothing",
			src:   fakeSource{err: errors.New("boom")},
			probe: probeFails(),
			want:  nil,
		},
		{
			name: "duplicate roots reported once",
			src: fakeSource{vols: []types.Volume{
				{Root: "/", Kind: types.MediumFixed},
				{Root: "/", Kind: types.MediumFixed},
			}},
			probe: probeFails(),
			want:  []string{"/"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnumerator(tt.src, tt.probe, nil)
			var got []string
			for _, v := range e.List(context.Background()) {
				got = append(got, v.Root)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnumeratorNeverProbesIneligible(t *testing.T) {
	var probed []string
	probe := func(root string) error {
		probed = append(probed, root)
		return nil
	}
	e := newEnumerator(fakeSource{vols: []types.Volume{
		{Root: "/proc", Kind: types.MediumOther},
		{Root: "/", Kind: types.MediumFixed},
	}}, probe, nil)

	e.List(context.Background())
	assert.Equal(t, []string{"/"}, probed)
}

func TestInventoryPruneFor(t *testing.T) {
	root := filepath.FromSlash("/")
	media := filepath.FromSlash("/media/usb")
	proc := filepath.FromSlash("/proc")
	e := newEnumerator(fakeSource{vols: []types.Volume{
		{Root: root, Kind: types.MediumFixed},
		{Root: proc, Kind: types.MediumOther},
		{Root: media, Kind: types.MediumRemovable},
	}}, probeFails(), nil)

	inv := e.Inventory(context.Background())
	assert.Equal(t, []string{root, media}, inv.Roots())
	assert.ElementsMatch(t, []string{proc, media}, inv.PruneFor(root))
	assert.Empty(t, inv.PruneFor(media))
	assert.Equal(t, []string{proc}, inv.Excluded(root))
}

func TestParseMounts(t *testing.T) {
	table := strings.Join([]string{
		"/dev/sda1 / ext4 rw,relatime 0 0",
		"proc /proc proc rw,nosuid 0 0",
		"tmpfs /run tmpfs rw 0 0",
		"/dev/sdb1 /media/alex/USB\\040DISK vfat rw 0 0",
		"server:/export /mnt/share nfs4 rw 0 0",
		"/dev/sdc1 /data xfs rw 0 0",
		"garbage",
	}, "\n")

	vols, err := parseMounts(strings.NewReader(table))
	require.NoError(t, err)
	require.Len(t, vols, 6)

	want := []types.Volume{
		{Root: "/", Kind: types.MediumFixed},
		{Root: "/proc", Kind: types.MediumOther},
		{Root: "/run", Kind: types.MediumOther},
		{Root: "/media/alex/USB DISK", Kind: types.MediumRemovable},
		{Root: "/mnt/share", Kind: types.MediumOther},
		{Root: "/data", Kind: types.MediumFixed},
	}
	assert.Equal(t, want, vols)
}

func TestUnescapeMount(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/plain", "/plain"},
		{`/with\040space`, "/with space"},
		{`/tab\011here`, "/tab\there"},
		{`/trailing\04`, `/trailing\04`},
		{`/bad\999`, `/bad\999`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unescapeMount(tt.in), tt.in)
	}
}
