package dedupe

import (
	"fmt"

	"github.com/plexdedupe/plexdedupe/pkg/models"
)

// Diagnostic describes a catalog record that was excluded from grouping.
// The scan continues; nothing is silently coerced.
type Diagnostic struct {
	Record  models.Record
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (%s): %s", d.Record.Title, d.Record.VersionID, d.Message)
}

// BuildGroups partitions a flat catalog listing into groups keyed by the
// logical title key pre-resolved by the catalog. First-seen order of keys and
// of versions within a key is preserved. Records missing a path or carrying a
// negative size are excluded with a diagnostic.
func BuildGroups(records []models.Record) ([]*models.Group, []Diagnostic) {
	var groups []*models.Group
	var diags []Diagnostic
	byKey := make(map[string]*models.Group)

	for _, rec := range records {
		if rec.Path == "" {
			diags = append(diags, Diagnostic{Record: rec, Message: "record has no file path"})
			continue
		}
		if rec.Size < 0 {
			diags = append(diags, Diagnostic{Record: rec, Message: fmt.Sprintf("record has negative size %d", rec.Size)})
			continue
		}

		g, ok := byKey[rec.LogicalKey]
		if !ok {
			g = &models.Group{
				Key:   rec.LogicalKey,
				Title: rec.Title,
				Kind:  rec.Kind,
			}
			byKey[rec.LogicalKey] = g
			groups = append(groups, g)
		}

		g.Versions = append(g.Versions, &models.Version{
			ID:         rec.VersionID,
			RatingKey:  rec.RatingKey,
			Path:       rec.Path,
			Size:       rec.Size,
			Resolution: rec.Resolution,
			Codec:      rec.Codec,
		})
	}

	return groups, diags
}
