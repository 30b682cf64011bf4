package executor

import (
	"github.com/plexdedupe/plexdedupe/internal/platform"
)

// VolumeKind classifies the storage medium beneath a path. It drives the
// safety policy: trash-recoverable deletion on local volumes, permanent
// unlink on network volumes, and hardlink exclusion for network shares.
type VolumeKind string

const (
	// VolumeLocal is a directly attached filesystem
	VolumeLocal VolumeKind = "local"
	// VolumeNetwork is a network-backed mount (UNC share, NFS, CIFS, ...)
	VolumeNetwork VolumeKind = "network"
)

// Classifier answers medium questions about paths. Classification must be
// computed fresh per path on every run; mappings can change between runs, so
// implementations never cache.
type Classifier interface {
	// Classify reports the volume kind beneath path
	Classify(path string) (VolumeKind, error)

	// SameVolume reports whether two paths live on the same volume, a
	// precondition for hardlinking
	SameVolume(a, b string) (bool, error)
}

// OSClassifier probes the operating system for each query. UNC-form paths
// are network regardless of platform; everything else is decided by the
// platform mount probe.
type OSClassifier struct{}

// Classify reports the volume kind beneath path.
func (OSClassifier) Classify(path string) (VolumeKind, error) {
	if platform.IsUNCPath(path) {
		return VolumeNetwork, nil
	}
	return classifyMount(path)
}

// SameVolume reports whether two paths live on the same volume. UNC pairs
// are never considered same-volume: link semantics are not guaranteed on
// shares even when the share names match.
func (OSClassifier) SameVolume(a, b string) (bool, error) {
	if platform.IsUNCPath(a) || platform.IsUNCPath(b) {
		return false, nil
	}
	return sameDevice(a, b)
}
