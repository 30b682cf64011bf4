package models

import (
	"testing"
)

func TestRunReportAdd(t *testing.T) {
	r := &RunReport{}

	r.Add(ExecutionResult{Outcome: DeletedToTrash, BytesReclaimed: 100})
	r.Add(ExecutionResult{Outcome: DeletedPermanently, BytesReclaimed: 50})
	r.Add(ExecutionResult{Outcome: Hardlinked, BytesReclaimed: 25})
	r.Add(ExecutionResult{Outcome: SkippedDryRun, BytesReclaimed: 200})
	r.Add(ExecutionResult{Outcome: SkippedCrossVolume})
	r.Add(ExecutionResult{Outcome: SkippedHashMismatch})
	r.Add(ExecutionResult{Outcome: Failed})

	if r.Trashed != 1 || r.Unlinked != 1 || r.Linked != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", r.Trashed, r.Unlinked, r.Linked)
	}
	if r.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", r.Skipped)
	}
	if r.Failures != 1 {
		t.Errorf("failures = %d, want 1", r.Failures)
	}
	if r.BytesFreed != 175 {
		t.Errorf("bytes freed = %d, want 175", r.BytesFreed)
	}
	// Dry-run savings are projected, never counted as freed.
	if r.ProjectedFreed != 200 {
		t.Errorf("projected = %d, want 200", r.ProjectedFreed)
	}
	if len(r.Results) != 7 {
		t.Errorf("results = %d, want 7", len(r.Results))
	}
}

func TestRunReportFinishStatus(t *testing.T) {
	tests := []struct {
		name      string
		outcomes  []Outcome
		cancelled bool
		want      RunStatus
	}{
		{"all succeed", []Outcome{DeletedToTrash, Hardlinked}, false, StatusSuccess},
		{"some fail", []Outcome{DeletedToTrash, Failed}, false, StatusPartial},
		{"all fail", []Outcome{Failed, Failed}, false, StatusFailed},
		{"cancelled wins", []Outcome{DeletedToTrash, Failed}, true, StatusCancelled},
		{"empty run succeeds", nil, false, StatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &RunReport{}
			for _, o := range tt.outcomes {
				r.Add(ExecutionResult{Outcome: o})
			}
			r.Finish(tt.cancelled)

			if r.Status != tt.want {
				t.Errorf("status = %s, want %s", r.Status, tt.want)
			}
			if r.EndTime.IsZero() {
				t.Error("end time not set")
			}
		})
	}
}

func TestRunStatusExitCode(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   int
	}{
		{StatusSuccess, 0},
		{StatusPartial, 1},
		{StatusFailed, 2},
		{StatusCancelled, 3},
	}
	for _, tt := range tests {
		if got := tt.status.ExitCode(); got != tt.want {
			t.Errorf("%s exit code = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestStrategyBetter(t *testing.T) {
	small := &Version{ID: "s", Size: 10}
	big := &Version{ID: "b", Size: 20}
	equal := &Version{ID: "e", Size: 20}

	if !KeepLargest.Better(big, small) {
		t.Error("largest: bigger candidate should win")
	}
	if KeepLargest.Better(small, big) {
		t.Error("largest: smaller candidate should lose")
	}
	// Strict comparison: ties keep the incumbent, so catalog order wins.
	if KeepLargest.Better(equal, big) {
		t.Error("largest: tie must not displace the incumbent")
	}
	if !KeepSmallest.Better(small, big) {
		t.Error("smallest: smaller candidate should win")
	}
}

func TestStrategyValid(t *testing.T) {
	if !KeepLargest.Valid() || !KeepSmallest.Valid() {
		t.Error("built-in strategies must be valid")
	}
	if Strategy("newest").Valid() {
		t.Error("unknown strategy accepted")
	}
}
