package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/betl-dev/betl/internal/banks"
	"github.com/betl-dev/betl/internal/grid"
	"github.com/betl-dev/betl/internal/model"
	"github.com/betl-dev/betl/internal/source"
)

var (
	// ErrEmptyAmount is returned for a row whose amount cell holds nothing.
	ErrEmptyAmount = errors.New("amount is empty")
	// ErrMissingColumn is returned when a delimited file lacks a column its
	// bank is known to export.
	ErrMissingColumn = errors.New("column not found in header")
)

// DecodeError reports a row that cannot become a transaction.
type DecodeError struct {
	Row   int // 1-based sheet or file row
	Field string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d: %s: %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("row %d: %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder turns aligned rows into transactions.
type Decoder struct {
	// DefaultDate stands in for any date that cannot be read.
	DefaultDate time.Time
	Logger      *log.Logger
}

// lookup returns the cell under a canonical header, or an empty cell.
type lookup func(field string) grid.Cell

// DecodeGrid decodes every data row of an aligned grid. The first row of the
// grid is the header row written by Align.
func (d *Decoder) DecodeGrid(g *grid.Grid, p banks.Profile) ([]model.Transaction, error) {
	columns := make(map[string]int)
	for i, c := range g.Row(0) {
		if c.Kind != grid.KindString {
			continue
		}
		if _, dup := columns[c.Str]; !dup {
			columns[c.Str] = i
		}
	}

	var txns []model.Transaction
	for r := 1; r < g.Height(); r++ {
		cells := g.Row(r)
		if blank(cells) {
			continue
		}
		get := func(field string) grid.Cell {
			i, ok := columns[field]
			if !ok || i >= len(cells) {
				return grid.Empty()
			}
			return cells[i]
		}

		tx, err := d.decodeRow(g.Start().Row+r+1, get, p)
		if err != nil {
			return nil, err
		}
		txns = append(txns, tx)
	}
	return txns, nil
}

// DecodeRecords decodes a delimited export, renaming the file's own columns
// to the profile's canonical headers.
func (d *Decoder) DecodeRecords(rr *source.RecordReader, p banks.Profile) ([]model.Transaction, error) {
	present := make(map[string]bool, len(rr.Header()))
	for _, h := range rr.Header() {
		present[h] = true
	}
	rename := make(map[string]string, len(p.Headers))
	for i, name := range p.Headers {
		if i >= len(p.SourceHeaders) {
			break
		}
		src := p.SourceHeaders[i]
		if !present[src] {
			return nil, &DecodeError{Row: 1, Field: src, Err: ErrMissingColumn}
		}
		rename[name] = src
	}

	var txns []model.Transaction
	for {
		rec, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		cells := make(map[string]grid.Cell, len(rename))
		for name, src := range rename {
			if v := rec[src]; v != "" {
				cells[name] = grid.String(v)
			}
		}
		if len(cells) == 0 {
			continue
		}
		get := func(field string) grid.Cell { return cells[field] }

		tx, err := d.decodeRow(rr.Line(), get, p)
		if err != nil {
			return nil, err
		}
		txns = append(txns, tx)
	}
	return txns, nil
}

func (d *Decoder) decodeRow(line int, get lookup, p banks.Profile) (model.Transaction, error) {
	opDate, opDefaulted := d.date(line, banks.FieldOperationDate, get(banks.FieldOperationDate), p.DateLayouts)
	valDate, valDefaulted := d.date(line, banks.FieldValueDate, get(banks.FieldValueDate), p.DateLayouts)

	cell := get(banks.FieldAmount)
	amount, err := parseAmount(cell)
	if err != nil {
		return model.Transaction{}, &DecodeError{
			Row:   line,
			Field: banks.FieldAmount,
			Value: cell.Text(),
			Err:   err,
		}
	}

	return model.Transaction{
		OperationDate:          opDate,
		ValueDate:              valDate,
		Description:            get(banks.FieldDescription).Text(),
		Amount:                 amount,
		OperationDateDefaulted: opDefaulted,
		ValueDateDefaulted:     valDefaulted,
	}, nil
}

// date never fails: anything unreadable becomes the default date and the
// second result reports the substitution.
func (d *Decoder) date(line int, field string, c grid.Cell, layouts []string) (time.Time, bool) {
	switch c.Kind {
	case grid.KindDate:
		return model.Day(c.Time), false
	case grid.KindString:
		s := strings.TrimSpace(c.Str)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return model.Day(t), false
			}
		}
	}
	d.logger().Debug("using default date", "row", line, "field", field, "kind", c.Kind, "value", c.Text())
	return model.Day(d.DefaultDate), true
}

func (d *Decoder) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

func parseAmount(c grid.Cell) (decimal.Decimal, error) {
	switch c.Kind {
	case grid.KindFloat:
		return decimal.NewFromFloat(c.Float), nil
	case grid.KindInt:
		return decimal.NewFromInt(c.Int), nil
	case grid.KindString:
		s := strings.TrimSpace(c.Str)
		if s == "" {
			return decimal.Zero, ErrEmptyAmount
		}
		return decimal.NewFromString(s)
	case grid.KindEmpty:
		return decimal.Zero, ErrEmptyAmount
	default:
		return decimal.Zero, fmt.Errorf("unexpected %s cell", c.Kind)
	}
}

func blank(cells []grid.Cell) bool {
	for _, c := range cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
