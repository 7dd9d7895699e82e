// Package grid is a typed, row/column addressable view over a spreadsheet
// worksheet or other tabular source.
package grid

import (
	"strconv"
	"time"
)

// Kind discriminates the value held by a Cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindDate
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindError:
		return "error"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Cell is a single typed value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind  Kind
	Str   string // KindString, KindError; source text of a KindFloat read from text
	Int   int64
	Float float64
	Bool  bool
	Time  time.Time
}

func Empty() Cell           { return Cell{} }
func String(s string) Cell  { return Cell{Kind: KindString, Str: s} }
func Int(i int64) Cell      { return Cell{Kind: KindInt, Int: i} }
func Float(f float64) Cell  { return Cell{Kind: KindFloat, Float: f} }
func Bool(b bool) Cell      { return Cell{Kind: KindBool, Bool: b} }
func Date(t time.Time) Cell { return Cell{Kind: KindDate, Time: t} }
func Error(code string) Cell {
	return Cell{Kind: KindError, Str: code}
}

// FloatText is a number parsed from text. Text returns the source text
// unchanged, so "0012345" does not come back as "12345".
func FloatText(f float64, text string) Cell {
	return Cell{Kind: KindFloat, Float: f, Str: text}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }

// Text renders the cell as display text. Empty cells render as "".
func (c Cell) Text() string {
	switch c.Kind {
	case KindString, KindError:
		return c.Str
	case KindInt:
		return strconv.FormatInt(c.Int, 10)
	case KindFloat:
		if c.Str != "" {
			return c.Str
		}
		return strconv.FormatFloat(c.Float, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	case KindDate:
		return c.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

// Pos is an absolute (row, col) coordinate, zero-based.
type Pos struct {
	Row int
	Col int
}

// Grid holds the used range of a worksheet. Rows may be ragged; missing
// cells read as empty.
type Grid struct {
	start Pos
	rows  [][]Cell
}

// New builds a grid from a full worksheet starting at A1. Leading rows and
// columns that hold no value are dropped and the origin records where the
// used range begins.
func New(rows [][]Cell) *Grid {
	top := -1
	left := -1
	for r, row := range rows {
		for c, cell := range row {
			if cell.IsEmpty() {
				continue
			}
			if top < 0 {
				top = r
			}
			if left < 0 || c < left {
				left = c
			}
		}
	}
	if top < 0 {
		return &Grid{}
	}

	used := make([][]Cell, 0, len(rows)-top)
	for _, row := range rows[top:] {
		if len(row) <= left {
			used = append(used, nil)
			continue
		}
		used = append(used, append([]Cell(nil), row[left:]...))
	}
	for len(used) > 0 && len(used[len(used)-1]) == 0 {
		used = used[:len(used)-1]
	}
	return &Grid{start: Pos{Row: top, Col: left}, rows: used}
}

// Start is the absolute position of the first addressable cell.
func (g *Grid) Start() Pos { return g.start }

// End is the absolute position of the last addressable cell. For an empty
// grid End lies before Start.
func (g *Grid) End() Pos {
	return Pos{Row: g.start.Row + g.Height() - 1, Col: g.start.Col + g.Width() - 1}
}

// Height is the number of addressable rows.
func (g *Grid) Height() int { return len(g.rows) }

// Width is the length of the widest row.
func (g *Grid) Width() int {
	w := 0
	for _, row := range g.rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Get returns the cell at an absolute position, or an empty cell outside
// the range.
func (g *Grid) Get(p Pos) Cell {
	r, c := p.Row-g.start.Row, p.Col-g.start.Col
	if r < 0 || r >= len(g.rows) || c < 0 || c >= len(g.rows[r]) {
		return Empty()
	}
	return g.rows[r][c]
}

// Set writes a cell at an absolute position inside the row range, widening
// the row when needed. Positions outside the row range are ignored.
func (g *Grid) Set(p Pos, cell Cell) {
	r, c := p.Row-g.start.Row, p.Col-g.start.Col
	if r < 0 || r >= len(g.rows) || c < 0 {
		return
	}
	for len(g.rows[r]) <= c {
		g.rows[r] = append(g.rows[r], Empty())
	}
	g.rows[r][c] = cell
}

// Row returns the cells of the i-th addressable row (relative to Start).
func (g *Grid) Row(i int) []Cell {
	if i < 0 || i >= len(g.rows) {
		return nil
	}
	return g.rows[i]
}

// Sub returns a copy of the grid restricted to rows [from, to], both
// absolute and inclusive. The column origin is kept. A from row beyond the
// end yields a single empty row at from, so callers can still relabel it.
func (g *Grid) Sub(from, to int) *Grid {
	if from < g.start.Row {
		from = g.start.Row
	}
	out := &Grid{start: Pos{Row: from, Col: g.start.Col}}
	for abs := from; abs <= to || abs == from; abs++ {
		r := abs - g.start.Row
		if r >= len(g.rows) {
			if abs == from {
				out.rows = append(out.rows, nil)
			}
			break
		}
		out.rows = append(out.rows, append([]Cell(nil), g.rows[r]...))
	}
	return out
}
