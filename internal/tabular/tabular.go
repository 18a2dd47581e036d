// Package tabular parses uploaded delimited-text and spreadsheet files into
// header-keyed rows for the normalizer.
package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/ledgerline/internal/normalize"
)

// Table is a parsed file: the header row in source order, and every
// subsequent row keyed by header name.
type Table struct {
	Columns []string
	Rows    []normalize.Row
}

// Parse dispatches on the file extension: .csv goes through the CSV reader,
// .xlsx and .xls through the workbook reader.
func Parse(filename string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xls":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
	}
}

// ParseCSV reads a delimited-text file whose first row is the header.
// Rows shorter than the header are padded with empty cells.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to parse csv header: %w", err)
	}

	table := &Table{Columns: header}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to parse csv row: %w", err)
		}

		table.Rows = append(table.Rows, rowFromRecord(header, record))
	}

	return table, nil
}

// ParseXLSX reads the first sheet of a workbook, first row as header, cells
// as their formatted string values.
func ParseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	if len(rows) == 0 {
		return &Table{}, nil
	}

	table := &Table{Columns: rows[0]}
	for _, record := range rows[1:] {
		table.Rows = append(table.Rows, rowFromRecord(rows[0], record))
	}

	return table, nil
}

func rowFromRecord(header, record []string) normalize.Row {
	row := make(normalize.Row, len(header))

	for i, column := range header {
		if i < len(record) {
			row[column] = record[i]
		} else {
			row[column] = ""
		}
	}

	return row
}
