package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/soltixdb/pindex/internal/aggregation"
)

// renderAverages formats the overall signed mean and one row per group
func renderAverages(title string, overall aggregation.Summary, groups []aggregation.Summary) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(title)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"Group", "Average", "Min", "Max", "Values"})
	for _, g := range groups {
		tbl.AppendRow(table.Row{groupLabel(g), formatIndex(g.Average), formatIndex(g.Min), formatIndex(g.Max), g.Count})
	}
	tbl.AppendFooter(table.Row{"All", formatIndex(overall.Average), formatIndex(overall.Min), formatIndex(overall.Max), overall.Count})

	return tbl.Render()
}

func groupLabel(s aggregation.Summary) string {
	switch {
	case s.CrimeType != "" && s.Neighbourhood != "":
		return s.CrimeType + " / " + s.Neighbourhood
	case s.Neighbourhood != "":
		return s.Neighbourhood
	default:
		return s.CrimeType
	}
}

func formatIndex(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
