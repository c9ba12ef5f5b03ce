// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package volume

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/dwgview/pkg/types"
)

// pseudoFS lists filesystem types that never hold user drawings: kernel
// interfaces, memory-backed mounts, read-only images and network shares.
var pseudoFS = map[string]bool{
	"autofs": true, "binfmt_misc": true, "bpf": true, "cgroup": true,
	"cgroup2": true, "configfs": true, "debugfs": true, "devpts": true,
	"devtmpfs": true, "efivarfs": true, "fusectl": true, "hugetlbfs": true,
	"mqueue": true, "nsfs": true, "proc": true, "pstore": true,
	"ramfs": true, "rpc_pipefs": true, "securityfs": true, "squashfs": true,
	"sysfs": true, "tmpfs": true, "tracefs": true,
	"cifs": true, "nfs": true, "nfs4": true, "smb3": true, "smbfs": true,
	"fuse.gvfsd-fuse": true, "fuse.portal": true, "fuse.sshfs": true,
}

// removablePrefixes are mount point prefixes used by desktop automounters.
var removablePrefixes = []string{"/media/", "/run/media/"}

// classifyMount derives the medium kind of one mount table entry.
func classifyMount(mountPoint, fsType string) types.MediumKind {
	if pseudoFS[fsType] {
		return types.MediumOther
	}
	for _, p := range removablePrefixes {
		if strings.HasPrefix(mountPoint, p) {
			return types.MediumRemovable
		}
	}
	return types.MediumFixed
}

// parseMounts reads a mount table in /proc/self/mounts format.
func parseMounts(r io.Reader) ([]types.Volume, error) {
	var vols []types.Volume
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		mountPoint := unescapeMount(fields[1])
		vols = append(vols, types.Volume{
			Root: mountPoint,
			Kind: classifyMount(mountPoint, fields[2]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading mount table: %w", err)
	}
	return vols, nil
}

// unescapeMount decodes the octal escapes (\040 for space, \011 for tab, ...)
// the kernel uses in mount table paths.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
