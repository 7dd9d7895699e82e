// Package source opens bank export containers and exposes them either as a
// typed grid (spreadsheets) or as a stream of header-keyed records (CSV).
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/betl-dev/betl/internal/banks"
	"github.com/betl-dev/betl/internal/grid"
)

// UnreadableError reports a source that is missing or is not the container
// its bank exports.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// SectionNotFoundError reports a worksheet missing from a valid workbook.
type SectionNotFoundError struct {
	Path      string
	Section   string
	Available []string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("worksheet %q not found in %s (available: %s)",
		e.Section, e.Path, strings.Join(e.Available, ", "))
}

var (
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
)

// OpenGrid reads the named worksheet of a spreadsheet into a grid.
func OpenGrid(path string, format banks.Format, section string) (*grid.Grid, error) {
	switch format {
	case banks.FormatXLS:
		if err := sniff(path, oleMagic, "xls"); err != nil {
			return nil, err
		}
		return readXLS(path, section)
	case banks.FormatXLSX:
		if err := sniff(path, zipMagic, "xlsx"); err != nil {
			return nil, err
		}
		return readXLSX(path, section)
	default:
		return nil, &UnreadableError{Path: path, Err: fmt.Errorf("format %q is not a spreadsheet", format)}
	}
}

// sniff checks the container's magic bytes so a CSV handed to a spreadsheet
// bank fails with a clear message instead of a parser error.
func sniff(path string, magic []byte, kind string) error {
	f, err := os.Open(path)
	if err != nil {
		return &UnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	head := make([]byte, len(magic))
	if _, err := io.ReadFull(f, head); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &UnreadableError{Path: path, Err: fmt.Errorf("not an %s file: too short", kind)}
		}
		return &UnreadableError{Path: path, Err: err}
	}
	if !bytes.Equal(head, magic) {
		return &UnreadableError{Path: path, Err: fmt.Errorf("not an %s file", kind)}
	}
	return nil
}
