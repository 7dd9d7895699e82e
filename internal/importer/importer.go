// Package importer reads a bank export into transactions: it opens the
// source for the profile's format, aligns and decodes its rows, then puts
// them in output order.
package importer

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/betl-dev/betl/internal/banks"
	"github.com/betl-dev/betl/internal/model"
	"github.com/betl-dev/betl/internal/source"
)

// Importer runs the read side of a conversion.
type Importer struct {
	decoder *Decoder
	logger  *log.Logger
}

// New creates an importer. A nil logger discards output. The importer keeps
// its own copy of decoder; a decoder without a logger uses logger.
func New(decoder *Decoder, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	d := *decoder
	if d.Logger == nil {
		d.Logger = logger
	}
	return &Importer{decoder: &d, logger: logger}
}

// Import reads path with profile p. Nothing is returned unless every row
// decoded.
func (im *Importer) Import(path string, p banks.Profile, reverse bool) ([]model.Transaction, error) {
	var (
		txns []model.Transaction
		err  error
	)
	switch p.Strategy() {
	case banks.StrategyGrid:
		txns, err = im.importGrid(path, p)
	case banks.StrategyDelimited:
		txns, err = im.importRecords(path, p)
	default:
		return nil, &banks.ConfigError{Bank: p.Bank, Reason: fmt.Sprintf("no decode strategy for format %q", p.Format)}
	}
	if err != nil {
		return nil, err
	}

	defaulted := 0
	for _, tx := range txns {
		if tx.DateDefaulted() {
			defaulted++
		}
	}
	if defaulted > 0 {
		im.logger.Warn("dates could not be read, default used", "rows", defaulted)
	}
	im.logger.Info("decoded transactions", "bank", p.Bank, "file", filepath.Base(path), "count", len(txns))

	return Normalize(txns, reverse), nil
}

func (im *Importer) importGrid(path string, p banks.Profile) ([]model.Transaction, error) {
	g, err := source.OpenGrid(path, p.Format, p.Section)
	if err != nil {
		return nil, err
	}
	aligned := Align(g, p)
	im.logger.Debug("aligned worksheet",
		"section", p.Section,
		"header_row", aligned.Start().Row+1,
		"rows", aligned.Height()-1,
	)

	txns, err := im.decoder.DecodeGrid(aligned, p)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return txns, nil
}

func (im *Importer) importRecords(path string, p banks.Profile) ([]model.Transaction, error) {
	rr, err := source.OpenRecords(path, source.CSVOptions{Encoding: p.Encoding, Delimiter: p.Delimiter})
	if err != nil {
		return nil, err
	}
	defer rr.Close()

	txns, err := im.decoder.DecodeRecords(rr, p)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return txns, nil
}
