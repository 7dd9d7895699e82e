package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankinterLedger = "2023-02-01 * Coffee shop\n" +
	"    Assets:Bankinter               -3.50€\n" +
	"    Expenses:Coffee\n" +
	"\n" +
	"2023-02-05 * NOMINA ACME\n" +
	"    Assets:Bankinter               1500.00€\n" +
	"    Income:Salary\n" +
	"\n"

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "betl.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestConvert_Workbook(t *testing.T) {
	dir := t.TempDir()
	export := writeBankinterExport(t, dir)
	cfg := writeConfig(t, dir, `{"mappings": {"(?i)coffee": "Expenses:Coffee", "NOMINA": "Income:Salary"}}`)

	res, err := runBetl(t, dir, nil, "--file", export, "--bank", "bankinter", "--config", cfg)
	require.NoError(t, err, res.stderr)

	data, err := os.ReadFile(filepath.Join(dir, "bankinter.ledger"))
	require.NoError(t, err)
	assert.Equal(t, bankinterLedger, string(data))
	assert.Equal(t, bankinterLedger, res.stdout)
}

// copySantanderExport copies the legacy workbook fixture into dir so the
// ledger is written next to it.
func copySantanderExport(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "source", "testdata", "santander.xls"))
	require.NoError(t, err)
	path := filepath.Join(dir, "santander.xls")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestConvert_LegacyWorkbook(t *testing.T) {
	dir := t.TempDir()
	export := copySantanderExport(t, dir)
	cfg := writeConfig(t, dir, `{"mappings": {"(?i)coffee": "Expenses:Coffee"}}`)

	res, err := runBetl(t, dir, nil, "--file", export, "--bank", "santander", "--config", cfg)
	require.NoError(t, err, res.stderr)

	want := "2023-02-01 * 0012345\n" +
		"    Assets:Checking               -3.50€\n" +
		"\n" +
		"2023-02-05 * Coffee shop\n" +
		"    Assets:Checking               1500.00€\n" +
		"    Expenses:Coffee\n" +
		"\n"
	data, err := os.ReadFile(filepath.Join(dir, "santander.ledger"))
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
	assert.Equal(t, want, res.stdout)

	res, err = runBetl(t, dir, nil, "--file", export, "--bank", "santander", "--sheet", "Hoja1")
	require.Error(t, err)
	assert.Contains(t, res.stderr, `worksheet "Hoja1" not found`)
}

func TestConvert_ReverseQuietOutput(t *testing.T) {
	dir := t.TempDir()
	export := writeBankinterExport(t, dir)
	out := filepath.Join(dir, "journal.ledger")

	res, err := runBetl(t, dir, nil,
		"-f", export, "-b", "BANKINTER", "--reverse", "--quiet", "-o", out, "--currency", " EUR")
	require.NoError(t, err, res.stderr)
	assert.Empty(t, res.stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	want := "2023-02-05 * NOMINA ACME\n" +
		"    Assets:Bankinter               1500.00 EUR\n" +
		"\n" +
		"2023-02-01 * Coffee shop\n" +
		"    Assets:Bankinter               -3.50 EUR\n" +
		"\n"
	assert.Equal(t, want, string(data))
}

func TestConvert_MissingConfigStillSucceeds(t *testing.T) {
	dir := t.TempDir()
	export := writeBankinterExport(t, dir)

	res, err := runBetl(t, dir, []string{"BETL_LOG_LEVEL=debug"}, "--file", export, "--bank", "bankinter")
	require.NoError(t, err, res.stderr)
	assert.NotContains(t, res.stdout, "Expenses:")
	assert.Contains(t, res.stderr, "no config file")
}

func TestConvert_MalformedConfigWarns(t *testing.T) {
	dir := t.TempDir()
	export := writeBankinterExport(t, dir)
	cfg := writeConfig(t, dir, `{"mappings": `)

	res, err := runBetl(t, dir, nil, "--file", export, "--bank", "bankinter", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, res.stderr, "ignoring unreadable config")
}

func TestConvert_AccountOverride(t *testing.T) {
	dir := t.TempDir()
	export := writeBankinterExport(t, dir)
	cfg := writeConfig(t, dir, `{"mappings": {}, "accounts": {"bankinter": "Assets:Bank:Bankinter"}, "currency": "$"}`)

	res, err := runBetl(t, dir, nil, "--file", export, "--bank", "bankinter", "--config", cfg)
	require.NoError(t, err, res.stderr)
	assert.Contains(t, res.stdout, "    Assets:Bank:Bankinter               -3.50$\n")
}

func TestConvert_EnvSettings(t *testing.T) {
	dir := t.TempDir()
	export := writeBankinterExport(t, dir)

	res, err := runBetl(t, dir, []string{"BETL_FILE=" + export, "BETL_BANK=bankinter", "BETL_QUIET=true"})
	require.NoError(t, err, res.stderr)
	assert.Empty(t, res.stdout)
	assert.FileExists(t, filepath.Join(dir, "bankinter.ledger"))
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	export := writeBankinterExport(t, dir)
	badCfg := writeConfig(t, dir, `{"mappings": {"(unclosed": "Expenses:Broken"}}`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing flags", []string{"--bank", "bankinter"}, `required flag(s) "bank", "file" not set`},
		{"unknown bank", []string{"--file", export, "--bank", "nope"}, "unknown bank (supported: bankia, santander, revolut, evobank, bankinter)"},
		{"missing sheet", []string{"--file", export, "--bank", "bankinter", "--sheet", "Hoja1"}, `worksheet "Hoja1" not found`},
		{"wrong container", []string{"--file", export, "--bank", "santander"}, "not an xls file"},
		{"missing file", []string{"--file", filepath.Join(dir, "nope.xlsx"), "--bank", "bankinter"}, "no such file"},
		{"invalid pattern", []string{"--file", export, "--bank", "bankinter", "--config", badCfg}, "invalid mapping pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := runBetl(t, dir, nil, tt.args...)
			require.Error(t, err)
			assert.Contains(t, res.stderr, "Error: ")
			assert.Contains(t, res.stderr, tt.want)
			assert.NoFileExists(t, filepath.Join(dir, "bankinter.ledger"), "nothing is written on failure")
		})
	}
}

func TestConvert_SkipInvalidPatterns(t *testing.T) {
	dir := t.TempDir()
	export := writeBankinterExport(t, dir)
	cfg := writeConfig(t, dir, `{"mappings": {"(unclosed": "Expenses:Broken", "Coffee": "Expenses:Coffee"}, "skip_invalid_patterns": true}`)

	res, err := runBetl(t, dir, nil, "--file", export, "--bank", "bankinter", "--config", cfg)
	require.NoError(t, err, res.stderr)
	assert.Contains(t, res.stderr, "skipping invalid mapping")
	assert.Contains(t, res.stdout, "    Expenses:Coffee\n")
}
