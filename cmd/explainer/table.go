package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ivlev/explainer/internal/narration"
)

// renderTracks formats narration tracks as a table with durations right
// aligned.
func renderTracks(tracks []narration.Track) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Scene", "Duration", "Status", "File"})
	for _, t := range tracks {
		status := "generated"
		if t.Cached {
			status = "cached"
		}
		tw.AppendRow(table.Row{t.Scene, fmt.Sprintf("%.1fs", t.Duration), status, t.Path})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
