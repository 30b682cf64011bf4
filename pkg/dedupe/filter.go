package dedupe

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/plexdedupe/plexdedupe/pkg/models"
)

// Column names a filterable display field of a plan row.
type Column string

const (
	ColumnTitle      Column = "title"
	ColumnType       Column = "type"
	ColumnResolution Column = "resolution"
	ColumnCodec      Column = "codec"
	ColumnSize       Column = "size"
	ColumnPath       Column = "path"
	ColumnAction     Column = "action"
)

// Columns lists all filterable columns in display order.
var Columns = []Column{
	ColumnTitle, ColumnType, ColumnResolution, ColumnCodec,
	ColumnSize, ColumnPath, ColumnAction,
}

// ValidColumn reports whether name (case-insensitive) is a known column.
func ValidColumn(name string) (Column, bool) {
	c := Column(strings.ToLower(name))
	for _, known := range Columns {
		if c == known {
			return known, true
		}
	}
	return "", false
}

// FilterState maps columns to case-insensitive query substrings. Empty or
// absent entries impose no constraint. Ephemeral; reset on every new scan.
type FilterState map[Column]string

// Active reports whether any non-empty predicate is set.
func (f FilterState) Active() bool {
	for _, q := range f {
		if strings.TrimSpace(q) != "" {
			return true
		}
	}
	return false
}

// EntryView pairs a plan entry with its visibility under the current filter.
type EntryView struct {
	Entry   *models.ActionEntry
	Visible bool
}

// GroupView is one parent row with its child entries. A group is visible iff
// at least one child entry is visible, regardless of whether the group's own
// fields match the filter.
type GroupView struct {
	Group   *models.Group
	Entries []EntryView
	Visible bool
}

// ApplyFilter computes the visible set over the full plan. It is a pure view
// computation: it never mutates entry actions or overridden flags, and it is
// cheap enough to rerun on every filter change. With no active predicates the
// full plan is visible.
func ApplyFilter(plan *models.Plan, state FilterState) []GroupView {
	var views []GroupView
	var current *GroupView

	for _, e := range plan.Entries {
		if current == nil || current.Group != e.Group {
			views = append(views, GroupView{Group: e.Group})
			current = &views[len(views)-1]
		}
		visible := matches(e, state)
		current.Entries = append(current.Entries, EntryView{Entry: e, Visible: visible})
		if visible {
			current.Visible = true
		}
	}
	return views
}

// matches checks the entry against all active column predicates
// conjunctively.
func matches(e *models.ActionEntry, state FilterState) bool {
	for col, q := range state {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(displayField(e, col)), strings.ToLower(q)) {
			return false
		}
	}
	return true
}

// displayField returns the text the operator sees for a column, which is what
// predicates match against.
func displayField(e *models.ActionEntry, col Column) string {
	switch col {
	case ColumnTitle:
		return e.Group.Title
	case ColumnType:
		return string(e.Group.Kind)
	case ColumnResolution:
		return e.Version.Resolution
	case ColumnCodec:
		return e.Version.Codec
	case ColumnSize:
		return FormatSize(e.Version.Size)
	case ColumnPath:
		return e.Version.Path
	case ColumnAction:
		return string(e.Action)
	default:
		return ""
	}
}

// FormatSize renders a byte count the way the plan table displays it.
func FormatSize(size int64) string {
	return humanize.IBytes(uint64(size))
}
