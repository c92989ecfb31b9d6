package spreadsheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// builtInDateFormats lists the built-in number format IDs that render dates or times.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// quoted literals and bracketed sections ([Red], [$-409]) carry no date tokens.
var formatNoise = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

var isoLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

type cellParser struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func newCellParser(f *excelize.File, sheet string) (*cellParser, error) {
	p := &cellParser{f: f, sheet: sheet, dateStyles: make(map[int]bool)}

	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("read workbook properties: %w", err)
	}
	if props.Date1904 != nil {
		p.date1904 = *props.Date1904
	}
	return p, nil
}

// value converts the raw content of the cell at (col, row) into a string, int64,
// float64, bool, time.Time or nil.
func (p *cellParser) value(col, row int, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}

	typ, err := p.f.GetCellType(p.sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("cell %s: %w", cell, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeDate:
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return raw, nil
	case excelize.CellTypeError:
		return nil, nil
	case excelize.CellTypeInlineString, excelize.CellTypeSharedString, excelize.CellTypeFormula:
		return raw, nil
	}

	// numbers carry no type attribute
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if isDate, err := p.isDateCell(cell); err != nil {
			return nil, err
		} else if isDate {
			return p.toTime(cell, float64(i))
		}
		return i, nil
	}
	if fl, err := strconv.ParseFloat(raw, 64); err == nil {
		if isDate, err := p.isDateCell(cell); err != nil {
			return nil, err
		} else if isDate {
			return p.toTime(cell, fl)
		}
		return fl, nil
	}
	return raw, nil
}

func (p *cellParser) toTime(cell string, serial float64) (time.Time, error) {
	t, err := excelize.ExcelDateToTime(serial, p.date1904)
	if err != nil {
		return time.Time{}, fmt.Errorf("cell %s: %w", cell, err)
	}
	return t, nil
}

func (p *cellParser) isDateCell(cell string) (bool, error) {
	styleID, err := p.f.GetCellStyle(p.sheet, cell)
	if err != nil {
		return false, fmt.Errorf("cell %s style: %w", cell, err)
	}
	if styleID == 0 {
		return false, nil
	}
	if isDate, ok := p.dateStyles[styleID]; ok {
		return isDate, nil
	}

	style, err := p.f.GetStyle(styleID)
	if err != nil {
		return false, fmt.Errorf("style %d: %w", styleID, err)
	}

	isDate := builtInDateFormats[style.NumFmt]
	if !isDate && style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	p.dateStyles[styleID] = isDate
	return isDate, nil
}

func isDateFormatCode(code string) bool {
	code = strings.ToLower(formatNoise.ReplaceAllString(code, ""))
	if code == "general" {
		return false
	}
	return strings.ContainsAny(code, "ydhms")
}
