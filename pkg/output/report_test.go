package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/plexdedupe/plexdedupe/pkg/models"
)

func TestWriteJSONReportUsesSnakeCaseKeys(t *testing.T) {
	report := &models.RunReport{
		RunID:     "run-1",
		Mode:      models.ModeDelete,
		StartTime: time.Now(),
	}
	report.Add(models.ExecutionResult{
		VersionID:      "m1",
		Title:          "Avatar",
		Path:           "/media/avatar.mkv",
		Outcome:        models.DeletedToTrash,
		BytesReclaimed: 7,
	})
	report.Finish(false)

	var buf bytes.Buffer
	if err := WriteJSONReport(&buf, report); err != nil {
		t.Fatalf("write report: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	for _, key := range []string{"run_id", "mode", "status", "bytes_freed", "results"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("report missing key %q", key)
		}
	}

	results, ok := doc["results"].([]interface{})
	if !ok || len(results) != 1 {
		t.Fatalf("results = %v", doc["results"])
	}
	entry, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("result entry = %v", results[0])
	}
	for _, key := range []string{"version_id", "title", "path", "outcome", "bytes_reclaimed"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("result entry missing key %q", key)
		}
	}
	if _, ok := entry["VersionID"]; ok {
		t.Error("result entry leaks Go field casing")
	}
	if entry["bytes_reclaimed"].(float64) != 7 {
		t.Errorf("bytes_reclaimed = %v, want 7", entry["bytes_reclaimed"])
	}
}
