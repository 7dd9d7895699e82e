package source

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"

	"github.com/betl-dev/betl/internal/grid"
)

// BIFF8 sheets are at most 256 columns wide.
const maxXLSCols = 256

// readXLS loads a legacy BIFF workbook. The xls library renders cells as
// text: cells with a custom date format come back as RFC3339 timestamps and
// numbers in plain notation, so both are turned back into typed cells here.
// Built-in date formats come back as year.month only and are not read as
// dates.
func readXLS(path, section string) (g *grid.Grid, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	// The xls parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			g = nil
			err = &UnreadableError{Path: path, Err: fmt.Errorf("parsing xls: %v", r)}
		}
	}()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: fmt.Errorf("parsing xls: %w", err)}
	}

	var sheet *xls.WorkSheet
	var names []string
	for i := 0; i < wb.NumSheets(); i++ {
		s := wb.GetSheet(i)
		if s == nil {
			continue
		}
		names = append(names, s.Name)
		if s.Name == section {
			sheet = s
		}
	}
	if sheet == nil {
		return nil, &SectionNotFoundError{Path: path, Section: section, Available: names}
	}

	var rows [][]grid.Cell
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		width := row.LastCol()
		if width <= 0 || width > maxXLSCols {
			// Rows without a ROW record report no width.
			width = maxXLSCols
		}
		cells := make([]grid.Cell, width)
		for c := range cells {
			cells[c] = xlsCell(row.Col(c))
		}
		for len(cells) > 0 && cells[len(cells)-1].IsEmpty() {
			cells = cells[:len(cells)-1]
		}
		rows = append(rows, cells)
	}
	return grid.New(rows), nil
}

// xlsRow returns nil for a row the sheet never stored. WorkSheet.Row
// dereferences the missing entry instead of returning nil.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func xlsCell(text string) grid.Cell {
	s := strings.TrimSpace(text)
	if s == "" {
		return grid.Empty()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return grid.Date(t)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return grid.FloatText(f, s)
	}
	return grid.String(s)
}
