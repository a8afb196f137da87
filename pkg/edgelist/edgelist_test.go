package edgelist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseValidInput(t *testing.T) {
	input := `nodeA,nodeB,weight
Alice,Bob,120
Bob,Carol,45.5
Alice,Carol,3
`
	records, err := Parse(strings.NewReader(input), DefaultColumns())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].NodeA != "Alice" || records[0].NodeB != "Bob" || records[0].Weight != 120 {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[1].Weight != 45.5 {
		t.Errorf("Expected fractional weight 45.5, got %v", records[1].Weight)
	}
}

func TestParseExtraColumnsIgnored(t *testing.T) {
	input := `id,nodeA,comment,nodeB,weight
1,Alice,first,Bob,10
2,Bob,second,Carol,20
`
	records, err := Parse(strings.NewReader(input), DefaultColumns())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[1].NodeA != "Bob" || records[1].NodeB != "Carol" {
		t.Errorf("Unexpected second record: %+v", records[1])
	}
}

func TestParseCustomColumns(t *testing.T) {
	input := `source,target,count
Alice,Bob,7
`
	cols := Columns{NodeA: "source", NodeB: "target", Weight: "count"}
	records, err := Parse(strings.NewReader(input), cols)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 || records[0].Weight != 7 {
		t.Errorf("Unexpected records: %+v", records)
	}
}

func TestParseBOMHeader(t *testing.T) {
	input := "\uFEFFnodeA,nodeB,weight\nAlice,Bob,5\n"
	records, err := Parse(strings.NewReader(input), DefaultColumns())
	if err != nil {
		t.Fatalf("Parse failed on BOM header: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 record, got %d", len(records))
	}
}

func TestParseSelfLoopsSkipped(t *testing.T) {
	input := `nodeA,nodeB,weight
Alice,Alice,99
Alice,Bob,10
`
	records, err := Parse(strings.NewReader(input), DefaultColumns())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected self-loop to be skipped, got %d records", len(records))
	}
	if records[0].NodeB != "Bob" {
		t.Errorf("Unexpected surviving record: %+v", records[0])
	}
}

func TestParseMissingColumns(t *testing.T) {
	input := `nodeA,weight
Alice,10
`
	_, err := Parse(strings.NewReader(input), DefaultColumns())

	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected SchemaError, got %v", err)
	}
	if len(serr.Missing) != 1 || serr.Missing[0] != "nodeB" {
		t.Errorf("Expected missing nodeB, got %v", serr.Missing)
	}
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""), DefaultColumns())

	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected SchemaError for empty input, got %v", err)
	}
	if len(serr.Missing) != 3 {
		t.Errorf("Expected all 3 columns missing, got %v", serr.Missing)
	}
}

func TestParseMalformedRows(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		reason string
	}{
		{
			name:   "non-numeric weight",
			input:  "nodeA,nodeB,weight\nAlice,Bob,heavy\n",
			line:   2,
			reason: "not a number",
		},
		{
			name:   "negative weight",
			input:  "nodeA,nodeB,weight\nAlice,Bob,10\nBob,Carol,-3\n",
			line:   3,
			reason: "weight must be positive",
		},
		{
			name:   "zero weight",
			input:  "nodeA,nodeB,weight\nAlice,Bob,0\n",
			line:   2,
			reason: "weight must be positive",
		},
		{
			name:   "empty node",
			input:  "nodeA,nodeB,weight\n,Bob,10\n",
			line:   2,
			reason: "empty node identifier",
		},
		{
			name:   "infinite weight",
			input:  "nodeA,nodeB,weight\nAlice,Bob,Inf\n",
			line:   2,
			reason: "not a finite number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), DefaultColumns())

			var derr *DataFormatError
			if !errors.As(err, &derr) {
				t.Fatalf("Expected DataFormatError, got %v", err)
			}
			if derr.Line != tt.line {
				t.Errorf("Expected line %d, got %d", tt.line, derr.Line)
			}
			if !strings.Contains(derr.Reason, tt.reason) {
				t.Errorf("Expected reason %q, got %q", tt.reason, derr.Reason)
			}
		})
	}
}

func TestParseShortRow(t *testing.T) {
	input := "nodeA,nodeB,weight\nAlice,Bob\n"
	_, err := Parse(strings.NewReader(input), DefaultColumns())

	var derr *DataFormatError
	if !errors.As(err, &derr) {
		t.Fatalf("Expected DataFormatError for short row, got %v", err)
	}
	if derr.Line != 2 {
		t.Errorf("Expected line 2, got %d", derr.Line)
	}
}

func TestParseFirstBadRowAborts(t *testing.T) {
	input := `nodeA,nodeB,weight
Alice,Bob,10
Bob,Carol,bad
Carol,Dave,20
`
	records, err := Parse(strings.NewReader(input), DefaultColumns())
	if err == nil {
		t.Fatalf("Expected error, got %d records", len(records))
	}
	if records != nil {
		t.Errorf("Expected no records on error, got %+v", records)
	}
}

func TestParseColumns(t *testing.T) {
	cols, err := ParseColumns("from, to, n")
	if err != nil {
		t.Fatalf("ParseColumns failed: %v", err)
	}
	if cols.NodeA != "from" || cols.NodeB != "to" || cols.Weight != "n" {
		t.Errorf("Unexpected columns: %+v", cols)
	}

	if _, err := ParseColumns("a,b"); err == nil {
		t.Error("Expected error for two columns")
	}
	if _, err := ParseColumns("a,,c"); err == nil {
		t.Error("Expected error for blank column name")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.csv")
	content := "nodeA,nodeB,weight\nAlice,Bob,10\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	records, err := ParseFile(path, DefaultColumns())
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 record, got %d", len(records))
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.csv"), DefaultColumns()); err == nil {
		t.Error("Expected error for missing file")
	}
}
