package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVOptions configures OpenRecords.
type CSVOptions struct {
	Encoding  string // WHATWG label such as "utf-8" or "windows-1252"; empty means UTF-8
	Delimiter rune   // zero means ','
}

// Record is one data row keyed by the file's own header names.
type Record map[string]string

// RecordReader streams records from a delimited-text export.
type RecordReader struct {
	path   string
	f      *os.File
	cr     *csv.Reader
	header []string
	line   int
}

// OpenRecords opens a delimited-text file and consumes its header row.
// The caller must Close the reader.
func OpenRecords(path string, opts CSVOptions) (*RecordReader, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}

	cr := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(enc.NewDecoder())))
	cr.TrimLeadingSpace = true
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		f.Close()
		if errors.Is(err, io.EOF) {
			err = errors.New("missing header row")
		}
		return nil, &UnreadableError{Path: path, Err: fmt.Errorf("reading CSV header: %w", err)}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return &RecordReader{path: path, f: f, cr: cr, header: header, line: 1}, nil
}

// Header returns the file's header names.
func (r *RecordReader) Header() []string { return r.header }

// Line is the 1-based file line of the record last returned by Next.
func (r *RecordReader) Line() int { return r.line }

// Next returns the next record, or io.EOF when the file is exhausted.
func (r *RecordReader) Next() (Record, error) {
	row, err := r.cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, &UnreadableError{Path: r.path, Err: fmt.Errorf("reading CSV: %w", err)}
	}
	r.line, _ = r.cr.FieldPos(0)

	rec := make(Record, len(r.header))
	for i, value := range row {
		if i < len(r.header) {
			rec[r.header[i]] = strings.TrimSpace(value)
		}
	}
	return rec, nil
}

// Close releases the underlying file.
func (r *RecordReader) Close() error {
	return r.f.Close()
}

func lookupEncoding(label string) (encoding.Encoding, error) {
	if label == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}
