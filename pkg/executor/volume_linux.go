//go:build linux

package executor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Filesystem magic numbers that indicate a network-backed mount.
const (
	nfsSuperMagic   = 0x6969
	smbSuperMagic   = 0x517b
	smb2SuperMagic  = 0xfe534d42
	cifsSuperMagic  = 0xff534d42
	cephSuperMagic  = 0x00c36400
	fuseSuperMagic  = 0x65735546
	ncpSuperMagic   = 0x564c
	codaSuperMagic  = 0x73757245
	afsSuperMagic   = 0x5346414f
	ocfs2SuperMagic = 0x7461636f
	gfs2SuperMagic  = 0x01161970
	v9fsSuperMagic  = 0x01021997
)

func classifyMount(path string) (VolumeKind, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return "", fmt.Errorf("failed to statfs %s: %w", path, err)
	}

	switch int64(st.Type) {
	case nfsSuperMagic, smbSuperMagic, smb2SuperMagic, cifsSuperMagic,
		cephSuperMagic, ncpSuperMagic, codaSuperMagic, afsSuperMagic,
		ocfs2SuperMagic, gfs2SuperMagic, v9fsSuperMagic:
		return VolumeNetwork, nil
	case fuseSuperMagic:
		// FUSE covers sshfs and friends; remote semantics cannot be
		// ruled out, so treat it as network for safety.
		return VolumeNetwork, nil
	default:
		return VolumeLocal, nil
	}
}

func sameDevice(a, b string) (bool, error) {
	var sa, sb unix.Stat_t
	if err := unix.Stat(a, &sa); err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", a, err)
	}
	if err := unix.Stat(b, &sb); err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", b, err)
	}
	return sa.Dev == sb.Dev, nil
}
