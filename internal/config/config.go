// Package config loads the user's category mappings and conversion
// settings.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCurrency is appended to every amount unless configured otherwise.
const DefaultCurrency = "€"

// Config represents the betl configuration file.
type Config struct {
	// Mappings assigns a category account to descriptions matching a regex.
	// The first matching rule wins.
	Mappings Mappings          `json:"mappings" yaml:"mappings"`
	Currency string            `json:"currency,omitempty" yaml:"currency,omitempty"`
	Accounts map[string]string `json:"accounts,omitempty" yaml:"accounts,omitempty"` // lower-case bank id -> ledger account

	// SkipInvalidPatterns drops rules whose regex does not compile instead
	// of failing the run.
	SkipInvalidPatterns bool `json:"skip_invalid_patterns,omitempty" yaml:"skip_invalid_patterns,omitempty"`
}

// DefaultPath returns ~/.config/betl.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", "betl.json"), nil
}

// Load reads a config file from disk. Files ending in .yaml or .yml are
// YAML; anything else is JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.Accounts, err = normalizeAccounts(cfg.Accounts); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// normalizeAccounts lower-cases bank ids and rejects two keys naming the
// same bank.
func normalizeAccounts(accounts map[string]string) (map[string]string, error) {
	if len(accounts) == 0 {
		return accounts, nil
	}
	out := make(map[string]string, len(accounts))
	seen := make(map[string]string, len(accounts))
	for k, v := range accounts {
		id := strings.ToLower(strings.TrimSpace(k))
		if prev, dup := seen[id]; dup {
			a, b := prev, k
			if b < a {
				a, b = b, a
			}
			return nil, fmt.Errorf("accounts %q and %q name the same bank", a, b)
		}
		seen[id] = k
		out[id] = v
	}
	return out, nil
}

// Save writes a Config to path, creating its directory if needed.
func Save(path string, cfg *Config) error {
	var data []byte
	if isYAML(path) {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
	} else {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		data = buf.Bytes()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file can be read: no
// mappings and the default currency.
func Default() *Config {
	return &Config{Currency: DefaultCurrency}
}

// Starter returns the example configuration written by `betl init`.
func Starter() *Config {
	return &Config{
		Mappings: Mappings{
			{Pattern: "(?i)mercadona|carrefour|lidl", Category: "Expenses:Groceries"},
			{Pattern: "(?i)n[oó]mina|payroll", Category: "Income:Salary"},
			{Pattern: "(?i)renfe|metro|uber|cabify", Category: "Expenses:Transport"},
			{Pattern: "(?i)coffee|caf[eé]", Category: "Expenses:Coffee"},
		},
		Currency: DefaultCurrency,
		Accounts: map[string]string{},
	}
}

// AccountFor returns the configured account override for bank, or fallback.
// Bank ids match without regard to case.
func (c *Config) AccountFor(bank, fallback string) string {
	if v := c.Accounts[strings.ToLower(bank)]; v != "" {
		return v
	}
	return fallback
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
