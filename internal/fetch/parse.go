package fetch

import (
	"bytes"
	"encoding/csv"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

// ParseOutcome says which parser accepted the downloaded bytes. Format
// detection is an ordinary branch on this value, not error interception.
type ParseOutcome int

const (
	Unparseable ParseOutcome = iota
	ParsedAsDelimited
	ParsedAsSpreadsheet
)

func (o ParseOutcome) String() string {
	switch o {
	case ParsedAsDelimited:
		return "csv"
	case ParsedAsSpreadsheet:
		return "xlsx"
	default:
		return "unparseable"
	}
}

// parseBody tries the downloaded bytes as comma-delimited text first, then as
// a spreadsheet workbook.
func parseBody(content []byte) (*report.RawTable, ParseOutcome) {
	if tbl := parseDelimited(content); tbl != nil {
		return tbl, ParsedAsDelimited
	}
	if tbl := parseSpreadsheet(content); tbl != nil {
		return tbl, ParsedAsSpreadsheet
	}
	return nil, Unparseable
}

// parseDelimited reads the content as CSV. Malformed rows are skipped rather
// than aborting the parse; content that is not valid UTF-8 text (e.g. a
// workbook binary) is rejected outright.
func parseDelimited(content []byte) *report.RawTable {
	if !utf8.Valid(content) {
		return nil
	}

	reader := csv.NewReader(stripBOM(bytes.NewReader(content)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil || len(header) < 2 {
		return nil
	}

	tbl := &report.RawTable{Header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl
}

// parseSpreadsheet reads the content as an xlsx workbook, taking the first
// sheet with its first row as the header.
func parseSpreadsheet(content []byte) *report.RawTable {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil || len(rows) == 0 {
		return nil
	}

	return &report.RawTable{Header: rows[0], Rows: rows[1:]}
}

// stripBOM wraps a reader to strip a UTF-8 BOM if present.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := r.Read(buf)
	if err != nil || n < 3 {
		return io.MultiReader(bytes.NewReader(buf[:n]), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(bytes.NewReader(buf[:n]), r)
}
