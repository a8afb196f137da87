package output

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ritzau/netgraph/pkg/model"
)

// topNodeCount limits the console ranking; the full table is in the CSV.
const topNodeCount = 10

// PrintRunReport prints a formatted summary of an analysis run with colors
func PrintRunReport(input string, stats model.RunStats, records []model.CentralityRecord, tablePath, imagePath string) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("Network Centrality Report")
	bold.Println("=========================")
	fmt.Printf("Input: %s\n", input)
	fmt.Printf("Parsed: %d edge rows\n", stats.RowsParsed)
	fmt.Printf("Network: %d nodes, %d edges\n", stats.TotalNodes, stats.TotalEdges)

	retention := stats.EdgeRetention() * 100
	filterColor := green
	if retention < 50 {
		filterColor = yellow
	}
	filterColor.Printf("Filtered (weight >= %g): %d nodes, %d edges (%.0f%% of edges kept)\n",
		stats.Threshold, stats.FilteredNodes, stats.FilteredEdges, retention)
	fmt.Println()

	if len(records) == 0 {
		yellow.Println("No edges at or above the threshold; the outputs are empty.")
		yellow.Println("Lower the threshold to keep more of the network.")
	} else {
		bold.Printf("Top %d nodes by eigenvector centrality:\n", min(topNodeCount, len(records)))
		fmt.Println(renderTopNodes(records))
	}
	fmt.Println()

	cyan.Printf("Table: %s\n", tablePath)
	cyan.Printf("Image: %s\n", imagePath)
}

// renderTopNodes renders the highest-eigenvector nodes as a console table
func renderTopNodes(records []model.CentralityRecord) string {
	ranked := make([]model.CentralityRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Eigenvector != ranked[j].Eigenvector {
			return ranked[i].Eigenvector > ranked[j].Eigenvector
		}
		return ranked[i].Node < ranked[j].Node
	})
	if len(ranked) > topNodeCount {
		ranked = ranked[:topNodeCount]
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Node", "Degree", "Betweenness", "Eigenvector"})
	for _, rec := range ranked {
		tw.AppendRow(table.Row{
			rec.Node,
			formatScore(rec.Degree),
			formatScore(rec.Betweenness),
			formatScore(rec.Eigenvector),
		})
	}
	return tw.Render()
}
