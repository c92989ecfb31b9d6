// Package spreadsheet converts the first worksheet of an xlsx workbook into row records.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"modelreports/internal/domain/models"
)

// ErrNoWorksheet indicates the workbook has no worksheet to read.
var ErrNoWorksheet = errors.New("workbook has no worksheet")

// Table is the content of one worksheet.
type Table struct {
	// Columns: header names in sheet order.
	Columns []string
	// Rows: data rows in sheet order.
	Rows []models.Row
}

// Parse reads a workbook from r and converts its first worksheet.
// The first non-empty row is the header; every later non-empty row becomes a record.
func Parse(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	p, err := newCellParser(f, sheets[0])
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(p.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", p.sheet, err)
	}

	header := -1
	width := 0
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if header < 0 {
			header = i
		}
		width = max(width, len(row))
	}

	table := &Table{Rows: make([]models.Row, 0, len(rows))}
	if header < 0 {
		return table, nil
	}
	names, err := headerNames(f, p.sheet, header+1, rows[header])
	if err != nil {
		return nil, err
	}
	table.Columns = columnNames(names, width)

	for i := header + 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		record := make(models.Row, width)
		for col, name := range table.Columns {
			var raw string
			if col < len(rows[i]) {
				raw = rows[i][col]
			}
			value, err := p.value(col+1, i+1, raw)
			if err != nil {
				return nil, err
			}
			record[name] = value
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// headerNames returns the header cells as displayed, so numeric, boolean and
// date headers keep their formatting instead of their stored value.
func headerNames(f *excelize.File, sheet string, row int, raw []string) ([]string, error) {
	names := make([]string, len(raw))
	for i, v := range raw {
		if v == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return nil, err
		}
		if names[i], err = f.GetCellValue(sheet, cell); err != nil {
			return nil, fmt.Errorf("header cell %s: %w", cell, err)
		}
	}
	return names, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// columnNames names blank header cells "Unnamed: <index>" and suffixes repeats with ".1", ".2"...
func columnNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := range names {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			candidate := name + "." + strconv.Itoa(n+1)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				seen[name]++
				candidate = name + "." + strconv.Itoa(seen[name])
			}
			name = candidate
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}
