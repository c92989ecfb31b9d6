// Package spreadsheettest builds xlsx workbooks for tests.
package spreadsheettest

import (
	"github.com/xuri/excelize/v2"
)

// Numeric is written as the raw value of an untyped (number) cell, so values
// such as "Inf" reach readers exactly as a spreadsheet application stores them.
type Numeric string

// Workbook returns the bytes of a workbook whose first sheet holds rows,
// starting at A1. Values are written with excelize.SetCellValue semantics,
// except Numeric values.
func Workbook(rows ...[]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}

		for j, v := range row {
			n, ok := v.(Numeric)
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellDefault(sheet, cell, string(n)); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
