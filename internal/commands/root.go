package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/betl-dev/betl/internal/banks"
	"github.com/betl-dev/betl/internal/buildinfo"
	"github.com/betl-dev/betl/internal/config"
	"github.com/betl-dev/betl/internal/importer"
	"github.com/betl-dev/betl/internal/ledger"
	"github.com/betl-dev/betl/internal/logging"
	"github.com/betl-dev/betl/internal/model"
)

// Setting keys. Each is also a flag name and, upper-cased with a BETL_
// prefix, an environment variable.
const (
	keyFile     = "file"
	keyBank     = "bank"
	keyReverse  = "reverse"
	keySheet    = "sheet"
	keyOutput   = "output"
	keyCurrency = "currency"
	keyQuiet    = "quiet"
	keyConfig   = "config"
	keyLogLevel = "log-level"
)

type convertOptions struct {
	file       string
	bank       string
	reverse    bool
	sheet      string
	output     string
	currency   string
	quiet      bool
	configPath string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:     "betl --file <export> --bank <bank>",
		Short:   "Convert bank exports into plain-text ledger entries",
		Version: buildinfo.String(),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), v.GetString(keyLogLevel))
			opts := convertOptions{
				file:       v.GetString(keyFile),
				bank:       v.GetString(keyBank),
				reverse:    v.GetBool(keyReverse),
				sheet:      v.GetString(keySheet),
				output:     v.GetString(keyOutput),
				currency:   v.GetString(keyCurrency),
				quiet:      v.GetBool(keyQuiet),
				configPath: v.GetString(keyConfig),
			}
			if opts.file == "" || opts.bank == "" {
				return errors.New(`required flag(s) "bank", "file" not set`)
			}
			return runConvert(cmd.OutOrStdout(), logger, opts, time.Now())
		},
	}

	flags := rootCmd.Flags()
	flags.StringP(keyFile, "f", "", "bank export to convert (.xls, .xlsx or .csv)")
	flags.StringP(keyBank, "b", "", "bank that produced the export ("+bankList(banks.DefaultRegistry())+")")
	flags.BoolP(keyReverse, "r", false, "reverse the order of transactions")
	flags.String(keySheet, "", "worksheet to read (default depends on the bank)")
	flags.StringP(keyOutput, "o", "", "ledger file to write (default: the export with a .ledger extension)")
	flags.String(keyCurrency, "", "currency symbol appended to amounts (default from config, else €)")
	flags.BoolP(keyQuiet, "q", false, "do not echo entries to stdout")

	persistent := rootCmd.PersistentFlags()
	persistent.String(keyConfig, "", "config file (default ~/.config/betl.json)")
	persistent.String(keyLogLevel, "info", "log level (debug, info, warn, error)")

	bindSettings(v, flags, persistent)

	rootCmd.AddCommand(newInitCommand(v))
	rootCmd.AddCommand(newBanksCommand())

	return rootCmd
}

// bindSettings layers BETL_* environment variables under the flags.
func bindSettings(v *viper.Viper, sets ...*pflag.FlagSet) {
	v.SetEnvPrefix("betl")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, fs := range sets {
		// Only fails for a nil flag set.
		_ = v.BindPFlags(fs)
	}
}

func runConvert(out io.Writer, logger *log.Logger, opts convertOptions, now time.Time) error {
	reg := banks.DefaultRegistry()

	section := opts.sheet
	if section == "" {
		section = reg.SectionHint(opts.bank, opts.file)
	}
	profile, err := reg.Resolve(opts.bank, section)
	if err != nil {
		return err
	}

	cfg := loadConfig(logger, opts.configPath)
	profile.Account = cfg.AccountFor(string(profile.Bank), profile.Account)
	currency := opts.currency
	if currency == "" {
		currency = cfg.Currency
	}

	matcher, err := ledger.NewMatcher(cfg.Mappings, ledger.MatcherOptions{
		SkipInvalid: cfg.SkipInvalidPatterns,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	im := importer.New(&importer.Decoder{DefaultDate: model.Day(now), Logger: logger}, logger)
	txns, err := im.Import(opts.file, profile, opts.reverse)
	if err != nil {
		return err
	}

	blocks := ledger.RenderAll(txns, matcher, profile.Account, currency)

	output := opts.output
	if output == "" {
		output = ledger.OutputPath(opts.file)
	}
	var echo io.Writer
	if !opts.quiet {
		echo = ledger.NewPrinter(out, colorEnabled(out))
	}
	if err := ledger.WriteFile(output, blocks, echo); err != nil {
		return err
	}

	logger.Info("wrote ledger", "path", output, "entries", len(blocks))
	return nil
}

// loadConfig never fails: a missing or broken config means no mappings.
func loadConfig(logger *log.Logger, path string) *config.Config {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			logger.Warn("no config path, continuing without mappings", "err", err)
			return config.Default()
		}
		path = p
	}

	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("no config file, continuing without mappings", "path", path)
		return config.Default()
	case err != nil:
		logger.Warn("ignoring unreadable config", "path", path, "err", err)
		return config.Default()
	}
	logger.Debug("loaded config", "path", path, "mappings", len(cfg.Mappings))
	return cfg
}

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && f == os.Stdout && !color.NoColor
}

func bankList(reg *banks.Registry) string {
	ids := reg.Banks()
	names := make([]string, len(ids))
	for i, b := range ids {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}

func configPath(v *viper.Viper) (string, error) {
	if p := v.GetString(keyConfig); p != "" {
		return p, nil
	}
	p, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return p, nil
}
