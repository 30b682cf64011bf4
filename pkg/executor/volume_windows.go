//go:build windows

package executor

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows"

	"github.com/plexdedupe/plexdedupe/internal/platform"
)

// classifyMount asks Windows for the drive type of the path's volume root.
// Mapped network drives report DRIVE_REMOTE.
func classifyMount(path string) (VolumeKind, error) {
	root := platform.VolumeRoot(path)
	if !strings.HasSuffix(root, "\\") {
		root += "\\"
	}

	rootPtr, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return "", fmt.Errorf("failed to encode volume root %s: %w", root, err)
	}

	switch windows.GetDriveType(rootPtr) {
	case windows.DRIVE_REMOTE:
		return VolumeNetwork, nil
	default:
		return VolumeLocal, nil
	}
}

// sameDevice compares volume roots; Windows hardlinks require the same
// drive letter.
func sameDevice(a, b string) (bool, error) {
	return strings.EqualFold(platform.VolumeRoot(a), platform.VolumeRoot(b)), nil
}
