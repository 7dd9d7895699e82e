package ledger

import (
	"strings"

	"github.com/betl-dev/betl/internal/model"
)

const (
	dateLayout    = "2006-01-02"
	postingIndent = "    "
	postingGap    = "               "
)

// Render formats one transaction as a ledger block:
//
//	2023-02-01 * Coffee shop
//	    Assets:Checking               -3.50€
//	    Expenses:Coffee
//
// The category line is present only when m matches the description. Every
// block ends with a blank line.
func Render(tx model.Transaction, m *Matcher, account, currency string) string {
	var b strings.Builder
	b.WriteString(tx.OperationDate.Format(dateLayout))
	b.WriteString(" * ")
	b.WriteString(tx.Description)
	b.WriteByte('\n')

	b.WriteString(postingIndent)
	b.WriteString(account)
	b.WriteString(postingGap)
	b.WriteString(tx.Amount.StringFixed(2))
	b.WriteString(currency)
	b.WriteByte('\n')

	if category, ok := m.Match(tx.Description); ok {
		b.WriteString(postingIndent)
		b.WriteString(category)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// RenderAll renders txns in order.
func RenderAll(txns []model.Transaction, m *Matcher, account, currency string) []string {
	blocks := make([]string, len(txns))
	for i, tx := range txns {
		blocks[i] = Render(tx, m, account, currency)
	}
	return blocks
}
