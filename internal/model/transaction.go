package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one normalized row of a bank export.
type Transaction struct {
	OperationDate time.Time // calendar date, midnight UTC
	ValueDate     time.Time
	Description   string
	Amount        decimal.Decimal // negative = expense, positive = income

	// Set when the source date could not be read and the run's default date
	// was substituted.
	OperationDateDefaulted bool
	ValueDateDefaulted     bool
}

// DateDefaulted reports whether either date is the default-date sentinel.
func (t Transaction) DateDefaulted() bool {
	return t.OperationDateDefaulted || t.ValueDateDefaulted
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
