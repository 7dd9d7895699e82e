package ledger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betl-dev/betl/internal/config"
	"github.com/betl-dev/betl/internal/model"
)

func coffee() model.Transaction {
	return model.Transaction{
		OperationDate: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		ValueDate:     time.Date(2023, 2, 2, 0, 0, 0, 0, time.UTC),
		Description:   "Coffee shop",
		Amount:        decimal.RequireFromString("-3.50"),
	}
}

func TestMatcher_FirstMatchWins(t *testing.T) {
	m, err := NewMatcher(config.Mappings{
		{Pattern: "^A", Category: "cat1"},
		{Pattern: "A.*", Category: "cat2"},
	}, MatcherOptions{})
	require.NoError(t, err)

	cat, ok := m.Match("ABC")
	assert.True(t, ok)
	assert.Equal(t, "cat1", cat)

	// Unanchored: a match anywhere counts.
	cat, ok = m.Match("xxA")
	assert.True(t, ok)
	assert.Equal(t, "cat2", cat)

	_, ok = m.Match("nothing here")
	assert.False(t, ok)
}

func TestMatcher_InvalidPatternFails(t *testing.T) {
	_, err := NewMatcher(config.Mappings{
		{Pattern: "ok", Category: "a"},
		{Pattern: "(unclosed", Category: "b"},
	}, MatcherOptions{})

	var patternErr *PatternError
	require.ErrorAs(t, err, &patternErr)
	assert.Equal(t, "(unclosed", patternErr.Pattern)
	assert.Contains(t, err.Error(), "invalid mapping pattern")
}

func TestMatcher_SkipInvalid(t *testing.T) {
	var buf bytes.Buffer
	m, err := NewMatcher(config.Mappings{
		{Pattern: "(unclosed", Category: "broken"},
		{Pattern: "(?i)coffee", Category: "Expenses:Coffee"},
	}, MatcherOptions{SkipInvalid: true, Logger: log.New(&buf)})
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
	cat, ok := m.Match("COFFEE SHOP")
	assert.True(t, ok)
	assert.Equal(t, "Expenses:Coffee", cat)
	assert.Contains(t, buf.String(), "skipping invalid mapping")
}

func TestMatcher_Nil(t *testing.T) {
	var m *Matcher
	_, ok := m.Match("anything")
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}

func TestRender(t *testing.T) {
	m, err := NewMatcher(config.Mappings{{Pattern: "Coffee", Category: "Expenses:Coffee"}}, MatcherOptions{})
	require.NoError(t, err)

	got := Render(coffee(), m, "Assets:Checking", "€")
	want := "2023-02-01 * Coffee shop\n" +
		"    Assets:Checking               -3.50€\n" +
		"    Expenses:Coffee\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestRender_NoCategory(t *testing.T) {
	tx := coffee()
	tx.Amount = decimal.NewFromFloat(1200)

	got := Render(tx, nil, "Assets:Revolut", "$")
	assert.Equal(t, "2023-02-01 * Coffee shop\n    Assets:Revolut               1200.00$\n\n", got)
}

func TestRender_UsesOperationDate(t *testing.T) {
	tx := coffee()
	tx.ValueDate = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, strings.HasPrefix(Render(tx, nil, "A", "€"), "2023-02-01 * Coffee shop\n"))
}

func TestRenderAll_MissingMappings(t *testing.T) {
	m, err := NewMatcher(config.Default().Mappings, MatcherOptions{})
	require.NoError(t, err)

	blocks := RenderAll([]model.Transaction{coffee(), coffee()}, m, "Assets:Checking", config.DefaultCurrency)
	require.Len(t, blocks, 2)
	for _, b := range blocks {
		assert.Equal(t, 3, strings.Count(b, "\n"), "no category line expected: %q", b)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"statement.xls", "statement.ledger"},
		{"/tmp/exports/Movimientos.xlsx", "/tmp/exports/Movimientos.ledger"},
		{"revolut.2023.csv", "revolut.2023.ledger"},
		{"noext", "noext.ledger"},
		{"dir.d/noext", "dir.d/noext.ledger"},
		{".hidden", ".hidden.ledger"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputPath(tt.in), "OutputPath(%q)", tt.in)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ledger")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the new one\n"), 0o644))

	blocks := []string{"first\n\n", "second\n\n"}
	var echo bytes.Buffer
	require.NoError(t, WriteFile(path, blocks, &echo))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond\n\n", string(data))
	assert.Equal(t, "first\n\nsecond\n\n", echo.String())
}

func TestWriteFile_NoEcho(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ledger")
	require.NoError(t, WriteFile(path, nil, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWriteFile_BadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.ledger"), []string{"x"}, nil)
	assert.ErrorContains(t, err, "creating ledger file")
}

func TestPrinter(t *testing.T) {
	block := Render(coffee(), nil, "Assets:Checking", "€")

	var plain bytes.Buffer
	n, err := NewPrinter(&plain, false).Write([]byte(block))
	require.NoError(t, err)
	assert.Equal(t, len(block), n)
	assert.Equal(t, block, plain.String())

	var colored bytes.Buffer
	_, err = NewPrinter(&colored, true).Write([]byte(block))
	require.NoError(t, err)
	assert.Contains(t, colored.String(), "\x1b[")
	assert.Contains(t, colored.String(), "Coffee shop")
	assert.True(t, strings.HasSuffix(colored.String(), "    Assets:Checking               -3.50€\n\n"))
}

func TestPrinter_PassThrough(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewPrinter(&buf, true).Write([]byte("not an entry"))
	require.NoError(t, err)
	assert.Equal(t, "not an entry", buf.String())
}
