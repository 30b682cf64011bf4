//go:build unix && !linux

package executor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Non-Linux unix systems have no portable filesystem-type probe, so only the
// UNC heuristic marks a path as network. Device identity still decides
// whether a hardlink is possible.
func classifyMount(path string) (VolumeKind, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return VolumeLocal, nil
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
