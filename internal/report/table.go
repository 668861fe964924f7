package report

import "strings"

// RawTable is a tabular report exactly as parsed from the downloaded file:
// source-defined column names, every cell still textual. Consumed once by the
// normalizer.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of a column by name, matching against
// whitespace-trimmed header cells. Returns -1 if the column is absent.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value at (row, col), or "" when the row is ragged
// and does not reach col.
func (t *RawTable) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
