package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/plexdedupe/plexdedupe/pkg/dedupe"
	"github.com/plexdedupe/plexdedupe/pkg/models"
)

// PrintResult writes one per-entry outcome line, including skip reasons, so
// the operator can always tell why nothing happened to a file.
func PrintResult(w io.Writer, res models.ExecutionResult) {
	mark := "✓"
	switch res.Outcome {
	case models.Failed:
		mark = "✗"
	case models.SkippedDryRun, models.SkippedCrossVolume, models.SkippedHashMismatch:
		mark = "-"
	}

	line := fmt.Sprintf("%s %s: %s", mark, res.Title, outcomeLabel(res.Outcome))
	if res.BytesReclaimed > 0 {
		line += fmt.Sprintf(" (%s)", dedupe.FormatSize(res.BytesReclaimed))
	}
	if res.Message != "" {
		line += " — " + res.Message
	}
	fmt.Fprintln(w, line)
}

func outcomeLabel(o models.Outcome) string {
	switch o {
	case models.SkippedDryRun:
		return "dry run, skipped"
	case models.DeletedToTrash:
		return "moved to trash"
	case models.DeletedPermanently:
		return "permanently deleted"
	case models.Hardlinked:
		return "converted to hardlink"
	case models.SkippedCrossVolume:
		return "skipped, cross-volume"
	case models.SkippedHashMismatch:
		return "skipped, content differs"
	case models.Failed:
		return "failed"
	default:
		return string(o)
	}
}

// PrintSummary writes the run totals in the human format.
func PrintSummary(w io.Writer, report *models.RunReport) {
	fmt.Fprintf(w, "\nRun %s completed in %s (%s)\n",
		report.RunID,
		report.EndTime.Sub(report.StartTime).Round(time.Millisecond),
		report.Status)
	fmt.Fprintf(w, "  Moved to trash:        %d\n", report.Trashed)
	fmt.Fprintf(w, "  Permanently deleted:   %d\n", report.Unlinked)
	fmt.Fprintf(w, "  Converted to hardlink: %d\n", report.Linked)
	fmt.Fprintf(w, "  Skipped:               %d\n", report.Skipped)
	fmt.Fprintf(w, "  Failed:                %d\n", report.Failures)
	fmt.Fprintf(w, "  Space reclaimed:       %s\n", dedupe.FormatSize(report.BytesFreed))
	if report.DryRun {
		fmt.Fprintf(w, "  Projected reclaim:     %s (dry run, nothing was changed)\n",
			dedupe.FormatSize(report.ProjectedFreed))
	}
}

// jsonReport is the machine-readable rendition of a run report.
type jsonReport struct {
	RunID          string                   `json:"run_id"`
	Mode           models.ExecMode          `json:"mode"`
	DryRun         bool                     `json:"dry_run"`
	Status         models.RunStatus         `json:"status"`
	DurationMs     int64                    `json:"duration_ms"`
	BytesFreed     int64                    `json:"bytes_freed"`
	ProjectedFreed int64                    `json:"projected_freed"`
	Results        []models.ExecutionResult `json:"results"`
}

// WriteJSONReport writes the full report as a single JSON document.
func WriteJSONReport(w io.Writer, report *models.RunReport) error {
	doc := jsonReport{
		RunID:          report.RunID,
		Mode:           report.Mode,
		DryRun:         report.DryRun,
		Status:         report.Status,
		DurationMs:     report.EndTime.Sub(report.StartTime).Milliseconds(),
		BytesFreed:     report.BytesFreed,
		ProjectedFreed: report.ProjectedFreed,
		Results:        report.Results,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
