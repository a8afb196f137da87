package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ritzau/netgraph/pkg/model"
)

// TableHeader is the column layout of the centrality measures CSV.
var TableHeader = []string{"node", "degree", "betweenness", "eigenvector"}

// WriteCentralityTable writes the centrality records as CSV. Scores are
// written with six decimal places. An empty record list still produces the
// header row so downstream tooling sees a valid, empty table.
func WriteCentralityTable(w io.Writer, records []model.CentralityRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(TableHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Node,
			formatScore(rec.Degree),
			formatScore(rec.Betweenness),
			formatScore(rec.Eigenvector),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", rec.Node, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCentralityTable writes the centrality table atomically to path.
func SaveCentralityTable(path string, records []model.CentralityRecord) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return WriteCentralityTable(w, records)
	})
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
