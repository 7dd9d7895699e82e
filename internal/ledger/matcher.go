// Package ledger renders transactions as plain-text ledger entries and
// writes them out.
package ledger

import (
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/betl-dev/betl/internal/config"
)

// PatternError reports a mapping whose pattern is not a valid regex.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid mapping pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// MatcherOptions controls how NewMatcher treats bad patterns.
type MatcherOptions struct {
	// SkipInvalid drops rules that fail to compile, logging a warning,
	// instead of returning a PatternError.
	SkipInvalid bool
	Logger      *log.Logger
}

type rule struct {
	re       *regexp.Regexp
	category string
}

// Matcher assigns categories to descriptions. A nil Matcher matches
// nothing.
type Matcher struct {
	rules []rule
}

// NewMatcher compiles every mapping once, in mapping order.
func NewMatcher(mappings config.Mappings, opts MatcherOptions) (*Matcher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Matcher{rules: make([]rule, 0, len(mappings))}
	for _, mp := range mappings {
		re, err := regexp.Compile(mp.Pattern)
		if err != nil {
			if !opts.SkipInvalid {
				return nil, &PatternError{Pattern: mp.Pattern, Err: err}
			}
			logger.Warn("skipping invalid mapping", "pattern", mp.Pattern, "err", err)
			continue
		}
		m.rules = append(m.rules, rule{re: re, category: mp.Category})
	}
	logger.Debug("compiled mappings", "rules", len(m.rules))
	return m, nil
}

// Match returns the category of the first rule whose pattern occurs
// anywhere in description.
func (m *Matcher) Match(description string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, r := range m.rules {
		if r.re.MatchString(description) {
			return r.category, true
		}
	}
	return "", false
}

// Len is the number of usable rules.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}
