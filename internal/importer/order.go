package importer

import (
	"slices"

	"github.com/betl-dev/betl/internal/model"
)

// Normalize returns txns in output order. Exports list newest first for some
// banks; reverse flips them into chronological order. The input is never
// modified.
func Normalize(txns []model.Transaction, reverse bool) []model.Transaction {
	if !reverse {
		return txns
	}
	out := slices.Clone(txns)
	slices.Reverse(out)
	return out
}
