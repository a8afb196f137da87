package edgelist

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from the input header.
// It is fatal: without a complete header no row can be interpreted.
type SchemaError struct {
	Missing []string // Required column names absent from the header
	Header  []string // The header actually found
}

func (e *SchemaError) Error() string {
	if len(e.Header) == 0 {
		return fmt.Sprintf("input has no header row, expected columns %s",
			strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("input is missing required column(s) %s (header: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Header, ", "))
}

// DataFormatError reports a malformed data row. Line is 1-based and counts
// the header, so it matches what an editor shows.
type DataFormatError struct {
	Line   int
	Column string
	Value  string
	Reason string
}

func (e *DataFormatError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: column %s: %s (value %q)", e.Line, e.Column, e.Reason, e.Value)
}
