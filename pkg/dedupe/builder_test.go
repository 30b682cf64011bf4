package dedupe

import (
	"testing"

	"github.com/plexdedupe/plexdedupe/pkg/models"
)

func record(key, title, versionID, path string, size int64) models.Record {
	return models.Record{
		LogicalKey: key,
		Kind:       models.KindMovie,
		Title:      title,
		VersionID:  versionID,
		RatingKey:  key,
		Path:       path,
		Size:       size,
	}
}

func TestBuildGroupsPreservesOrder(t *testing.T) {
	records := []models.Record{
		record("10", "Avatar", "m1", "/media/avatar-4k.mkv", 60),
		record("20", "Dune", "m3", "/media/dune.mkv", 30),
		record("10", "Avatar", "m2", "/media/avatar-1080p.mkv", 40),
	}

	groups, diags := BuildGroups(records)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	if groups[0].Title != "Avatar" || groups[1].Title != "Dune" {
		t.Errorf("groups out of first-seen order: %q, %q", groups[0].Title, groups[1].Title)
	}
	if got := len(groups[0].Versions); got != 2 {
		t.Fatalf("expected 2 versions in first group, got %d", got)
	}
	if groups[0].Versions[0].ID != "m1" || groups[0].Versions[1].ID != "m2" {
		t.Errorf("versions out of catalog order: %s, %s",
			groups[0].Versions[0].ID, groups[0].Versions[1].ID)
	}
	if !groups[0].HasDuplicates() {
		t.Error("group with 2 versions should report duplicates")
	}
	if groups[1].HasDuplicates() {
		t.Error("single-version group should not report duplicates")
	}
}

func TestBuildGroupsExcludesMalformedRecords(t *testing.T) {
	tests := []struct {
		name   string
		rec    models.Record
		reason string
	}{
		{
			name:   "missing path",
			rec:    record("10", "Avatar", "m1", "", 60),
			reason: "no file path",
		},
		{
			name: "negative size",
			rec: models.Record{
				LogicalKey: "10", Title: "Avatar", VersionID: "m1",
				Path: "/media/avatar.mkv", Size: -1,
			},
			reason: "negative size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := record("10", "Avatar", "m2", "/media/avatar-ok.mkv", 40)
			groups, diags := BuildGroups([]models.Record{tt.rec, good})

			if len(diags) != 1 {
				t.Fatalf("expected 1 diagnostic, got %d", len(diags))
			}
			if len(groups) != 1 || len(groups[0].Versions) != 1 {
				t.Fatalf("malformed record leaked into groups: %+v", groups)
			}
			if groups[0].Versions[0].ID != "m2" {
				t.Errorf("wrong surviving version: %s", groups[0].Versions[0].ID)
			}
		})
	}
}

func TestBuildGroupsZeroSizeIsValid(t *testing.T) {
	groups, diags := BuildGroups([]models.Record{
		record("10", "Avatar", "m1", "/media/avatar.mkv", 0),
	})
	if len(diags) != 0 {
		t.Fatalf("zero size must not be excluded: %v", diags)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
}
