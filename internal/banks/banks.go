// Package banks holds the fixed set of supported bank export layouts.
package banks

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Bank identifies a supported bank.
type Bank string

const (
	Bankia    Bank = "bankia"
	Santander Bank = "santander"
	Revolut   Bank = "revolut"
	EvoBank   Bank = "evobank"
	Bankinter Bank = "bankinter"
)

// Format is the container a bank exports.
type Format string

const (
	FormatXLS  Format = "xls"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Strategy is how rows of a format are decoded.
type Strategy int

const (
	// StrategyGrid reads a worksheet and relabels its header row.
	StrategyGrid Strategy = iota
	// StrategyDelimited reads text that already carries a usable header row.
	StrategyDelimited
)

// Canonical field names the decoder looks up.
const (
	FieldOperationDate = "operation_date"
	FieldValueDate     = "value_date"
	FieldDescription   = "description"
	FieldAmount        = "amount"
)

// Profile is the resolved layout for one run.
type Profile struct {
	Bank          Bank
	Format        Format
	SkipRows      int
	Headers       []string
	SourceHeaders []string // delimited only, paired with Headers
	Section       string
	Account       string
	DateLayouts   []string
	Encoding      string
	Delimiter     rune
}

// Strategy returns the decode strategy for the profile's format.
func (p Profile) Strategy() Strategy {
	if p.Format == FormatCSV {
		return StrategyDelimited
	}
	return StrategyGrid
}

// SectionPolicy says where a bank's worksheet name comes from.
type SectionPolicy int

const (
	// SectionRequired banks fail to resolve without an explicit section.
	SectionRequired SectionPolicy = iota
	// SectionDefault banks fall back to Definition.DefaultSection.
	SectionDefault
	// SectionNone banks have no worksheets.
	SectionNone
)

func (p SectionPolicy) String() string {
	switch p {
	case SectionRequired:
		return "required"
	case SectionDefault:
		return "default"
	case SectionNone:
		return "none"
	default:
		return fmt.Sprintf("SectionPolicy(%d)", int(p))
	}
}

// HintKind says how the CLI derives a section when none is given.
type HintKind int

const (
	HintNone HintKind = iota
	HintFileStem
	HintFixed
)

// Definition is the static registry entry for a bank.
type Definition struct {
	Bank           Bank
	Format         Format
	SkipRows       int
	Headers        []string
	SourceHeaders  []string
	Policy         SectionPolicy
	DefaultSection string
	Hint           HintKind
	HintSection    string
	Account        string
	DateLayouts    []string
	Encoding       string
	Delimiter      rune
}

// ConfigError reports a layout parameter that cannot be resolved.
type ConfigError struct {
	Bank   Bank
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Bank == "" {
		return "bank configuration: " + e.Reason
	}
	return fmt.Sprintf("bank %s: %s", e.Bank, e.Reason)
}

// Registry holds bank definitions keyed by lower-case identifier.
type Registry struct {
	defs  map[Bank]Definition
	order []Bank
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Bank]Definition)}
}

// Register adds a definition. Panics on duplicate bank.
func (r *Registry) Register(d Definition) {
	key := Bank(strings.ToLower(string(d.Bank)))
	if _, ok := r.defs[key]; ok {
		panic("duplicate bank definition: " + string(key))
	}
	d.Bank = key
	r.defs[key] = d
	r.order = append(r.order, key)
}

// Get returns the definition for a bank identifier, ignoring case.
func (r *Registry) Get(name string) (Definition, bool) {
	d, ok := r.defs[Bank(strings.ToLower(strings.TrimSpace(name)))]
	return d, ok
}

// Banks lists registered identifiers in registration order.
func (r *Registry) Banks() []Bank {
	return slices.Clone(r.order)
}

// Resolve builds the run profile for bank. A non-empty section overrides
// the bank's own policy.
func (r *Registry) Resolve(bank, section string) (Profile, error) {
	d, ok := r.Get(bank)
	if !ok {
		return Profile{}, &ConfigError{
			Bank:   Bank(bank),
			Reason: fmt.Sprintf("unknown bank (supported: %s)", r.names()),
		}
	}

	if section == "" {
		switch d.Policy {
		case SectionDefault:
			section = d.DefaultSection
		case SectionRequired:
			return Profile{}, &ConfigError{Bank: d.Bank, Reason: "worksheet name is required"}
		}
	}

	return Profile{
		Bank:          d.Bank,
		Format:        d.Format,
		SkipRows:      d.SkipRows,
		Headers:       slices.Clone(d.Headers),
		SourceHeaders: slices.Clone(d.SourceHeaders),
		Section:       section,
		Account:       d.Account,
		DateLayouts:   slices.Clone(d.DateLayouts),
		Encoding:      d.Encoding,
		Delimiter:     d.Delimiter,
	}, nil
}

// SectionHint returns the worksheet name the CLI should pass for an input
// file, or "" to leave it to the bank's policy.
func (r *Registry) SectionHint(bank, inputPath string) string {
	d, ok := r.Get(bank)
	if !ok {
		return ""
	}
	switch d.Hint {
	case HintFileStem:
		base := filepath.Base(inputPath)
		return strings.TrimSuffix(base, filepath.Ext(base))
	case HintFixed:
		return d.HintSection
	default:
		return ""
	}
}

func (r *Registry) names() string {
	names := make([]string, len(r.order))
	for i, b := range r.order {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}
