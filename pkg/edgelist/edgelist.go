package edgelist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ritzau/netgraph/pkg/logging"
	"github.com/ritzau/netgraph/pkg/model"
)

// Columns names the three required header columns of a weighted edge list.
type Columns struct {
	NodeA  string
	NodeB  string
	Weight string
}

// DefaultColumns matches the header used by the co-occurrence exports this
// tool was built for.
func DefaultColumns() Columns {
	return Columns{NodeA: "nodeA", NodeB: "nodeB", Weight: "weight"}
}

// ParseColumns parses a comma-separated "nodeA,nodeB,weight" triple.
func ParseColumns(s string) (Columns, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Columns{}, fmt.Errorf("expected three comma-separated column names, got %q", s)
	}
	cols := Columns{
		NodeA:  strings.TrimSpace(parts[0]),
		NodeB:  strings.TrimSpace(parts[1]),
		Weight: strings.TrimSpace(parts[2]),
	}
	if cols.NodeA == "" || cols.NodeB == "" || cols.Weight == "" {
		return Columns{}, fmt.Errorf("column names must not be empty, got %q", s)
	}
	return cols, nil
}

// ParseFile reads and validates a weighted edge list CSV from disk.
func ParseFile(path string, cols Columns) ([]model.EdgeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Parse(f, cols)
}

// Parse reads a weighted edge list from r. The first row must be a header
// containing the three configured columns; extra columns are ignored. The
// first malformed row aborts the parse with a DataFormatError. Self-loop rows
// are skipped with a warning since the network is simple.
func Parse(r io.Reader, cols Columns) ([]model.EdgeRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: []string{cols.NodeA, cols.NodeB, cols.Weight}}
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idxA, idxB, idxW, serr := mapColumns(header, cols)
	if serr != nil {
		return nil, serr
	}

	var records []model.EdgeRecord
	selfLoops := 0
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &DataFormatError{Line: pe.Line, Reason: pe.Err.Error()}
			}
			return nil, &DataFormatError{Line: line, Reason: err.Error()}
		}

		a := strings.TrimSpace(row[idxA])
		b := strings.TrimSpace(row[idxB])
		if a == "" {
			return nil, &DataFormatError{Line: line, Column: cols.NodeA, Value: row[idxA], Reason: "empty node identifier"}
		}
		if b == "" {
			return nil, &DataFormatError{Line: line, Column: cols.NodeB, Value: row[idxB], Reason: "empty node identifier"}
		}

		raw := strings.TrimSpace(row[idxW])
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &DataFormatError{Line: line, Column: cols.Weight, Value: raw, Reason: "not a number"}
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, &DataFormatError{Line: line, Column: cols.Weight, Value: raw, Reason: "not a finite number"}
		}
		if w <= 0 {
			return nil, &DataFormatError{Line: line, Column: cols.Weight, Value: raw, Reason: "weight must be positive"}
		}

		if a == b {
			selfLoops++
			continue
		}

		records = append(records, model.EdgeRecord{NodeA: a, NodeB: b, Weight: w})
	}

	if selfLoops > 0 {
		logging.Warn("skipped self-loop rows", "count", selfLoops)
	}

	return records, nil
}

// mapColumns resolves the configured column names to indices in the header.
// A UTF-8 BOM on the first cell is tolerated since spreadsheet exports often
// carry one.
func mapColumns(header []string, cols Columns) (idxA, idxB, idxW int, err error) {
	idxA, idxB, idxW = -1, -1, -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		name = strings.TrimSpace(name)
		switch name {
		case cols.NodeA:
			if idxA < 0 {
				idxA = i
			}
		case cols.NodeB:
			if idxB < 0 {
				idxB = i
			}
		case cols.Weight:
			if idxW < 0 {
				idxW = i
			}
		}
	}

	var missing []string
	if idxA < 0 {
		missing = append(missing, cols.NodeA)
	}
	if idxB < 0 {
		missing = append(missing, cols.NodeB)
	}
	if idxW < 0 {
		missing = append(missing, cols.Weight)
	}
	if len(missing) > 0 {
		trimmed := make([]string, len(header))
		for i, h := range header {
			trimmed[i] = strings.TrimSpace(h)
		}
		return -1, -1, -1, &SchemaError{Missing: missing, Header: trimmed}
	}

	return idxA, idxB, idxW, nil
}
