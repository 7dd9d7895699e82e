package ledger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// OutputPath derives the ledger file for an input export by replacing its
// extension with .ledger.
func OutputPath(input string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	if ext == base {
		// Dotfile without a further extension.
		ext = ""
	}
	return strings.TrimSuffix(input, ext) + ".ledger"
}

// WriteFile creates or truncates path and writes blocks in order. Each
// block is also written to echo when it is not nil.
func WriteFile(path string, blocks []string, echo io.Writer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing ledger file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, block := range blocks {
		if _, err := w.WriteString(block); err != nil {
			return fmt.Errorf("writing ledger file: %w", err)
		}
		if echo != nil {
			if _, err := io.WriteString(echo, block); err != nil {
				return fmt.Errorf("echoing entry: %w", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing ledger file: %w", err)
	}
	return nil
}

// Printer echoes rendered blocks to a terminal, highlighting the header
// line of each entry.
type Printer struct {
	w    io.Writer
	date *color.Color
	flag *color.Color
	desc *color.Color
}

// NewPrinter returns a Printer writing to w. Colors are emitted only when
// colored is set.
func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:    w,
		date: color.New(color.FgBlue, color.Bold),
		flag: color.New(color.FgRed, color.Bold),
		desc: color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.date, p.flag, p.desc} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Write prints one block. Input that does not start with an entry header
// passes through unchanged.
func (p *Printer) Write(block []byte) (int, error) {
	head, rest, ok := strings.Cut(string(block), "\n")
	date, desc, found := strings.Cut(head, " * ")
	if !ok || !found {
		return p.w.Write(block)
	}
	if _, err := fmt.Fprintf(p.w, "%s %s %s\n%s",
		p.date.Sprint(date), p.flag.Sprint("*"), p.desc.Sprint(desc), rest); err != nil {
		return 0, err
	}
	return len(block), nil
}
