package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/betl-dev/betl/internal/grid"
)

// Built-in number formats that render a serial number as a date. Time-only
// formats (18-21, 45-47) are left as numbers.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
}

// Quoted literals and [..] sections (colors, locales, elapsed time) carry
// no date tokens.
var numFmtLiterals = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

type xlsxSheet struct {
	f          *excelize.File
	name       string
	dateStyles map[int]bool
}

func readXLSX(path, section string) (*grid.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: fmt.Errorf("parsing xlsx: %w", err)}
	}
	defer f.Close()

	names := f.GetSheetList()
	sheet := ""
	for _, n := range names {
		if strings.EqualFold(n, section) {
			sheet = n
			break
		}
	}
	if sheet == "" {
		return nil, &SectionNotFoundError{Path: path, Section: section, Available: names}
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: fmt.Errorf("reading sheet %q: %w", sheet, err)}
	}

	x := &xlsxSheet{f: f, name: sheet, dateStyles: make(map[int]bool)}
	rows := make([][]grid.Cell, len(raw))
	for r, row := range raw {
		cells := make([]grid.Cell, len(row))
		for c, value := range row {
			cell, err := x.cell(c+1, r+1, value)
			if err != nil {
				return nil, &UnreadableError{Path: path, Err: err}
			}
			cells[c] = cell
		}
		rows[r] = cells
	}
	return grid.New(rows), nil
}

// cell types a raw value using the cell's declared type and, for numbers,
// its number format.
func (x *xlsxSheet) cell(col, row int, value string) (grid.Cell, error) {
	if strings.TrimSpace(value) == "" {
		return grid.Empty(), nil
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return grid.Cell{}, err
	}
	typ, err := x.f.GetCellType(x.name, ref)
	if err != nil {
		return grid.Cell{}, fmt.Errorf("cell %s: %w", ref, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return grid.Bool(value == "1" || strings.EqualFold(value, "true")), nil
	case excelize.CellTypeError:
		return grid.Error(value), nil
	case excelize.CellTypeDate:
		if t, ok := parseISO(value); ok {
			return grid.Date(t), nil
		}
		return grid.String(value), nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return grid.String(value), nil
		}
		date, err := x.isDate(ref)
		if err != nil {
			return grid.Cell{}, fmt.Errorf("cell %s: %w", ref, err)
		}
		if date {
			if t, err := excelize.ExcelDateToTime(n, false); err == nil {
				return grid.Date(t), nil
			}
		}
		return grid.Float(n), nil
	default:
		return grid.String(value), nil
	}
}

func (x *xlsxSheet) isDate(ref string) (bool, error) {
	id, err := x.f.GetCellStyle(x.name, ref)
	if err != nil {
		return false, err
	}
	if id == 0 {
		return false, nil
	}
	if date, ok := x.dateStyles[id]; ok {
		return date, nil
	}
	style, err := x.f.GetStyle(id)
	if err != nil {
		return false, err
	}
	date := builtinDateFormats[style.NumFmt]
	if !date && style.CustomNumFmt != nil {
		date = isDateFormatCode(*style.CustomNumFmt)
	}
	x.dateStyles[id] = date
	return date, nil
}

func isDateFormatCode(code string) bool {
	code = strings.ToLower(numFmtLiterals.ReplaceAllString(code, ""))
	return strings.ContainsAny(code, "dy")
}

func parseISO(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
