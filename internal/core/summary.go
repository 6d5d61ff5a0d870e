package core

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"yarn-audit-gate/internal/types"
)

// WriteSummaryTable prints the severity-count table for the reportable
// bucket. Console decoration only; never part of the report payload.
func WriteSummaryTable(writer io.Writer, classification Classification) {
	if len(classification.Reportable) == 0 {
		fmt.Fprint(writer, color.GreenString("\nNo reportable vulnerabilities.\n"))
		return
	}

	counts := RecomputeSeverityCounts(classification.Reportable)
	table := tablewriter.NewTable(writer,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignCenter},
			},
		}),
	)
	table.Header([]string{"Severity", "Count"})
	for _, severity := range types.Severities() {
		count := countFor(counts, severity)
		if count == 0 {
			continue
		}
		table.Append([]string{strings.ToUpper(string(severity)), strconv.Itoa(count)})
	}
	fmt.Fprintf(writer, "\nFound %s:\n", color.RedString("%d reportable vulnerabilities", counts.Total()))
	table.Render()
}

func countFor(counts types.SeverityCounts, severity types.Severity) int {
	switch severity {
	case types.SeverityInfo:
		return counts.Info
	case types.SeverityLow:
		return counts.Low
	case types.SeverityModerate:
		return counts.Moderate
	case types.SeverityHigh:
		return counts.High
	case types.SeverityCritical:
		return counts.Critical
	default:
		return 0
	}
}
