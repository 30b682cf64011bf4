package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/plexdedupe/plexdedupe/pkg/dedupe"
)

// RenderPlan writes the grouped action plan as a table: one parent row per
// visible group, one indented child row per visible entry. Hidden rows are
// filtered out entirely; parents stay visible as long as any child matches.
func RenderPlan(w io.Writer, views []dedupe.GroupView) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Title", "Type", "Resolution", "Codec", "Size", "Path", "Action"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	groupsShown := 0
	for _, gv := range views {
		if !gv.Visible {
			continue
		}
		if groupsShown > 0 {
			tw.AppendSeparator()
		}
		groupsShown++

		tw.AppendRow(table.Row{gv.Group.Title, string(gv.Group.Kind), "", "", "", "", ""})
		for i, ev := range gv.Entries {
			if !ev.Visible {
				continue
			}
			v := ev.Entry.Version
			action := string(ev.Entry.Action)
			if ev.Entry.Overridden {
				action += " *"
			}
			tw.AppendRow(table.Row{
				fmt.Sprintf("  Version %d", i+1),
				"",
				v.Resolution,
				v.Codec,
				dedupe.FormatSize(v.Size),
				v.Path,
				action,
			})
		}
	}

	if groupsShown == 0 {
		fmt.Fprintln(w, "No duplicates match the current filters.")
		return
	}
	tw.Render()
}
