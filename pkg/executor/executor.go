package executor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/plexdedupe/plexdedupe/pkg/logging"
	"github.com/plexdedupe/plexdedupe/pkg/models"
	"github.com/plexdedupe/plexdedupe/pkg/verify"
)

// CatalogRemover retracts a version's record from the library service after
// a confirmed physical delete. It is never called when the physical delete
// failed, so the catalog and the filesystem cannot diverge silently.
type CatalogRemover interface {
	RemoveVersion(ctx context.Context, v *models.Version) error
}

// Options configure one execution batch.
type Options struct {
	// Mode selects destructive removal or hardlink consolidation
	Mode models.ExecMode

	// DryRun computes and reports everything but mutates nothing
	DryRun bool

	// Targets maps group key to the hardlink target version; defaults to
	// each group's KEEP entry. Ignored in delete mode.
	Targets map[string]*models.Version
}

// Executor performs the physical consolidation over a plan subset. It never
// mutates the plan; it only produces results keyed by version identifier.
// Callers must not run two executions over the same plan concurrently.
type Executor struct {
	catalog CatalogRemover
	trash   Trasher
	volumes Classifier
	hasher  *verify.Hasher
	logger  logging.Logger
}

// New creates an executor. A nil classifier defaults to the OS probe; a nil
// trasher defaults to the XDG trash; a nil logger is replaced by the null
// logger.
func New(catalog CatalogRemover, trash Trasher, volumes Classifier, hasher *verify.Hasher, logger logging.Logger) *Executor {
	if trash == nil {
		trash = &XDGTrash{}
	}
	if volumes == nil {
		volumes = OSClassifier{}
	}
	if hasher == nil {
		hasher = verify.NewHasher(0)
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Executor{
		catalog: catalog,
		trash:   trash,
		volumes: volumes,
		hasher:  hasher,
		logger:  logger,
	}
}

// Execute processes the entries sequentially on one background goroutine and
// streams one ExecutionResult per entry, in input order, over the returned
// channel. Unexpected per-entry errors yield Failed results and the batch
// continues; cancellation takes effect at the next entry boundary and the
// channel closes with the results produced so far still valid.
func (x *Executor) Execute(ctx context.Context, entries []*models.ActionEntry, opts Options) <-chan models.ExecutionResult {
	results := make(chan models.ExecutionResult)

	go func() {
		defer close(results)
		for _, entry := range entries {
			select {
			case <-ctx.Done():
				return
			default:
			}

			res := x.process(ctx, entry, opts)
			if ctx.Err() != nil && res.Outcome == "" {
				return
			}

			select {
			case results <- res:
			case <-ctx.Done():
				return
			}
		}
	}()

	return results
}

func (x *Executor) process(ctx context.Context, entry *models.ActionEntry, opts Options) models.ExecutionResult {
	res := models.ExecutionResult{
		VersionID: entry.Version.ID,
		Title:     entry.Group.Title,
		Path:      entry.Version.Path,
	}

	switch opts.Mode {
	case models.ModeHardlink:
		target := opts.Targets[entry.Group.Key]
		x.processHardlink(ctx, entry, target, opts.DryRun, &res)
	default:
		x.processDelete(ctx, entry, opts.DryRun, &res)
	}

	x.logger.Info(ctx, "entry processed", logging.Fields{
		"version": res.VersionID,
		"path":    res.Path,
		"outcome": string(res.Outcome),
		"bytes":   res.BytesReclaimed,
	})

	return res
}

// Dry-run delete messages. Callers previewing a batch key the
// permanent-delete warning on these, so they are exported constants rather
// than inline strings.
const (
	MsgWouldTrash             = "would move to trash (local volume)"
	MsgWouldDeletePermanently = "would permanently delete (network volume)"
)

// processDelete removes the duplicate file under the medium-appropriate
// safety policy and retracts the catalog record only after the physical
// delete succeeded.
func (x *Executor) processDelete(ctx context.Context, entry *models.ActionEntry, dryRun bool, res *models.ExecutionResult) {
	kind, err := x.volumes.Classify(entry.Version.Path)
	if err != nil {
		res.Outcome = models.Failed
		res.Message = fmt.Sprintf("volume classification failed: %v", err)
		return
	}

	if dryRun {
		res.Outcome = models.SkippedDryRun
		res.BytesReclaimed = entry.Version.Size
		if kind == VolumeNetwork {
			res.Message = MsgWouldDeletePermanently
		} else {
			res.Message = MsgWouldTrash
		}
		return
	}

	switch kind {
	case VolumeNetwork:
		if err := os.Remove(entry.Version.Path); err != nil {
			res.Outcome = models.Failed
			res.Message = fmt.Sprintf("permanent delete failed: %v", err)
			return
		}
		res.Outcome = models.DeletedPermanently
	default:
		if err := x.trash.Trash(entry.Version.Path); err != nil {
			res.Outcome = models.Failed
			res.Message = fmt.Sprintf("move to trash failed: %v", err)
			return
		}
		res.Outcome = models.DeletedToTrash
	}
	res.BytesReclaimed = entry.Version.Size

	if x.catalog != nil {
		if err := x.catalog.RemoveVersion(ctx, entry.Version); err != nil {
			// The file is gone but the catalog still lists it; flag
			// the divergence prominently.
			deleted := res.Outcome
			res.Outcome = models.Failed
			res.Message = fmt.Sprintf("file removed (%s) but catalog retraction failed: %v", deleted, err)
		}
	}
}

// processHardlink replaces the duplicate with a hardlink to the group's
// target after the cross-volume check and content verification pass. The
// catalog record is left intact: the path still resolves, only storage is
// shared.
func (x *Executor) processHardlink(ctx context.Context, entry *models.ActionEntry, target *models.Version, dryRun bool, res *models.ExecutionResult) {
	if target == nil {
		res.Outcome = models.Failed
		res.Message = "no link target selected for group"
		return
	}

	dupKind, err := x.volumes.Classify(entry.Version.Path)
	if err != nil {
		res.Outcome = models.Failed
		res.Message = fmt.Sprintf("volume classification failed: %v", err)
		return
	}
	targetKind, err := x.volumes.Classify(target.Path)
	if err != nil {
		res.Outcome = models.Failed
		res.Message = fmt.Sprintf("volume classification failed: %v", err)
		return
	}

	if dupKind == VolumeNetwork || targetKind == VolumeNetwork {
		res.Outcome = models.SkippedCrossVolume
		res.Message = "network volumes do not guarantee hardlink semantics"
		return
	}
	same, err := x.volumes.SameVolume(entry.Version.Path, target.Path)
	if err != nil {
		res.Outcome = models.Failed
		res.Message = fmt.Sprintf("volume comparison failed: %v", err)
		return
	}
	if !same {
		res.Outcome = models.SkippedCrossVolume
		res.Message = "files live on different volumes"
		return
	}

	if linked, err := alreadyLinked(entry.Version.Path, target.Path); err != nil {
		res.Outcome = models.Failed
		res.Message = fmt.Sprintf("stat failed: %v", err)
		return
	} else if linked {
		res.Outcome = models.Hardlinked
		if dryRun {
			res.Outcome = models.SkippedDryRun
		}
		res.Message = "paths already share storage"
		return
	}

	identical, err := x.hasher.Compare(ctx, entry.Version.Path, target.Path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			res.Outcome = ""
			return
		}
		res.Outcome = models.Failed
		res.Message = fmt.Sprintf("content verification failed: %v", err)
		return
	}
	if !identical {
		res.Outcome = models.SkippedHashMismatch
		res.Message = "file contents are not identical"
		return
	}

	if dryRun {
		res.Outcome = models.SkippedDryRun
		res.BytesReclaimed = entry.Version.Size
		res.Message = fmt.Sprintf("would hardlink to %s", target.Path)
		return
	}

	if err := replaceWithLink(entry.Version.Path, target.Path); err != nil {
		res.Outcome = models.Failed
		res.Message = err.Error()
		return
	}

	res.Outcome = models.Hardlinked
	res.BytesReclaimed = entry.Version.Size
}

func alreadyLinked(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(infoA, infoB), nil
}

// replaceWithLink swaps the duplicate for a hardlink via a backup rename, so
// a failed link restores the original file untouched.
func replaceWithLink(dupPath, targetPath string) error {
	backup := dupPath + ".plexdedupe_backup"

	if err := os.Rename(dupPath, backup); err != nil {
		return fmt.Errorf("failed to set aside duplicate: %w", err)
	}

	if err := os.Link(targetPath, dupPath); err != nil {
		if restoreErr := os.Rename(backup, dupPath); restoreErr != nil {
			return fmt.Errorf("failed to create hardlink (%v) and failed to restore original: %w", err, restoreErr)
		}
		return fmt.Errorf("failed to create hardlink: %w", err)
	}

	if err := os.Remove(backup); err != nil {
		return fmt.Errorf("hardlink created but backup cleanup failed: %w", err)
	}

	return nil
}
