package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath normalizes a path for the current platform, preserving UNC
// prefixes on Windows.
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// IsUNCPath checks whether a path names a network share in UNC form. Catalog
// paths originate on the media server, which may run on a different OS than
// this tool, so the check is purely syntactic.
func IsUNCPath(path string) bool {
	return strings.HasPrefix(path, "\\\\") || strings.HasPrefix(path, "//")
}

// ParseUNCPath parses a UNC path into host, share, and remainder components.
// Returns empty strings if the path is not UNC.
func ParseUNCPath(path string) (host, share, relPath string) {
	if !IsUNCPath(path) {
		return "", "", ""
	}

	trimmed := strings.TrimPrefix(path, "\\\\")
	trimmed = strings.TrimPrefix(trimmed, "//")
	trimmed = strings.ReplaceAll(trimmed, "\\", "/")

	parts := strings.SplitN(trimmed, "/", 3)
	if len(parts) >= 1 {
		host = parts[0]
	}
	if len(parts) >= 2 {
		share = parts[1]
	}
	if len(parts) >= 3 {
		relPath = parts[2]
	}

	return host, share, relPath
}

// VolumeRoot returns the volume portion of a path: the drive letter or UNC
// share on Windows, "/" elsewhere.
func VolumeRoot(path string) string {
	if host, share, _ := ParseUNCPath(path); host != "" {
		return "\\\\" + host + "\\" + share
	}
	if vol := filepath.VolumeName(path); vol != "" {
		return vol
	}
	return "/"
}

// PathError represents a path validation error.
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}

// ValidatePath checks that a path is non-empty and absolute, as required of
// catalog-supplied file locations.
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}
	if !IsUNCPath(path) && !filepath.IsAbs(path) && filepath.VolumeName(path) == "" {
		return &PathError{Path: path, Message: "path is not absolute"}
	}
	return nil
}
