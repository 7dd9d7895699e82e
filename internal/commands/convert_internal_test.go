package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betl-dev/betl/internal/banks"
)

func TestRunConvert_RevolutDefaultsUnreadableDates(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "revolut-2023.csv")
	data := "Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance\n" +
		"TOPUP,Current,2023-02-03 18:00:00,,Top-Up by *1234,50,0.00,EUR,PENDING,\n" +
		"CARD_PAYMENT,Current,not a date,2023-02-02 10:00:01,Coffee shop,-3.5,0.00,EUR,COMPLETED,96.50\n"
	require.NoError(t, os.WriteFile(export, []byte(data), 0o644))

	var out bytes.Buffer
	now := time.Date(2024, 6, 30, 17, 45, 0, 0, time.Local)
	err := runConvert(&out, log.New(io.Discard), convertOptions{
		file:       export,
		bank:       "revolut",
		configPath: filepath.Join(dir, "missing.json"),
	}, now)
	require.NoError(t, err)

	want := "2023-02-03 * Top-Up by *1234\n" +
		"    Assets:Revolut               50.00€\n" +
		"\n" +
		"2024-06-30 * Coffee shop\n" +
		"    Assets:Revolut               -3.50€\n" +
		"\n"
	assert.Equal(t, want, out.String())

	written, err := os.ReadFile(filepath.Join(dir, "revolut-2023.ledger"))
	require.NoError(t, err)
	assert.Equal(t, want, string(written))
}

func TestRunBanks(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runBanks(&out, banks.DefaultRegistry()))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 6)
	assert.Contains(t, string(lines[0]), "WORKSHEET")
	assert.Contains(t, string(lines[1]), "file name")
	assert.Contains(t, string(lines[3]), "-")
}

func TestLoadConfig_FallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	cfg := loadConfig(logger, filepath.Join(t.TempDir(), "absent.json"))
	assert.Empty(t, cfg.Mappings)
	assert.Equal(t, "€", cfg.Currency)
	assert.Contains(t, buf.String(), "no config file")
}
