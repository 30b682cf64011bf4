package models

import (
	"time"
)

// ExecMode is the consolidation mode for a run
type ExecMode string

const (
	// ModeDelete removes duplicate files (trash on local volumes,
	// permanent unlink on network volumes)
	ModeDelete ExecMode = "delete"
	// ModeHardlink converts duplicates into hardlinks to the kept version
	ModeHardlink ExecMode = "hardlink"
)

// Outcome classifies what happened to a single plan entry
type Outcome string

const (
	// SkippedDryRun indicates no mutation occurred because of dry-run mode
	SkippedDryRun Outcome = "skipped_dry_run"
	// DeletedToTrash indicates the file was moved to the OS trash (recoverable)
	DeletedToTrash Outcome = "deleted_to_trash"
	// DeletedPermanently indicates the file was unlinked on a network volume
	DeletedPermanently Outcome = "deleted_permanently"
	// Hardlinked indicates the duplicate now shares storage with the target
	Hardlinked Outcome = "hardlinked"
	// SkippedCrossVolume indicates the pair spans volumes (or a network share)
	SkippedCrossVolume Outcome = "skipped_cross_volume"
	// SkippedHashMismatch indicates file contents are not verified identical
	SkippedHashMismatch Outcome = "skipped_hash_mismatch"
	// Failed indicates an unexpected I/O or catalog error
	Failed Outcome = "failed"
)

// ExecutionResult is produced per processed ActionEntry, in plan-subset
// order, and never persisted.
type ExecutionResult struct {
	// VersionID keys the result back to its plan entry
	VersionID string `json:"version_id"`

	// Title is the parent group display string, for reporting
	Title string `json:"title"`

	// Path is the file the entry referred to
	Path string `json:"path"`

	// Outcome tag
	Outcome Outcome `json:"outcome"`

	// BytesReclaimed is zero unless a deletion/hardlink actually freed
	// space (dry-run reports projected savings)
	BytesReclaimed int64 `json:"bytes_reclaimed"`

	// Message is an optional diagnostic (skip reason, error detail)
	Message string `json:"message,omitempty"`
}

// RunStatus represents the overall result of an execution batch
type RunStatus string

const (
	// StatusSuccess indicates every entry completed without failure
	StatusSuccess RunStatus = "success"
	// StatusPartial indicates some entries failed
	StatusPartial RunStatus = "partial"
	// StatusFailed indicates every entry failed
	StatusFailed RunStatus = "failed"
	// StatusCancelled indicates the operator cancelled mid-batch
	StatusCancelled RunStatus = "cancelled"
)

// ExitCode maps a run status to a process exit code.
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}

// RunReport aggregates the results of one execution batch.
type RunReport struct {
	RunID     string
	Mode      ExecMode
	DryRun    bool
	StartTime time.Time
	EndTime   time.Time

	Results []ExecutionResult

	// Counts per outcome
	Trashed        int
	Unlinked       int
	Linked         int
	Skipped        int
	Failures       int
	BytesFreed     int64
	ProjectedFreed int64

	Status RunStatus
}

// Add folds one result into the report totals.
func (r *RunReport) Add(res ExecutionResult) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case DeletedToTrash:
		r.Trashed++
		r.BytesFreed += res.BytesReclaimed
	case DeletedPermanently:
		r.Unlinked++
		r.BytesFreed += res.BytesReclaimed
	case Hardlinked:
		r.Linked++
		r.BytesFreed += res.BytesReclaimed
	case SkippedDryRun:
		r.Skipped++
		r.ProjectedFreed += res.BytesReclaimed
	case SkippedCrossVolume, SkippedHashMismatch:
		r.Skipped++
	case Failed:
		r.Failures++
	}
}

// Finish computes the final status. cancelled wins over everything else.
func (r *RunReport) Finish(cancelled bool) {
	r.EndTime = time.Now()
	switch {
	case cancelled:
		r.Status = StatusCancelled
	case r.Failures == 0:
		r.Status = StatusSuccess
	case r.Failures == len(r.Results):
		r.Status = StatusFailed
	default:
		r.Status = StatusPartial
	}
}
