package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// VerificationReport summarizes a walk over the whole ledger.
type VerificationReport struct {
	EntriesChecked int
	Balance        decimal.Decimal
	Consistent     bool
	// FirstBrokenEntryID is set when Consistent is false.
	FirstBrokenEntryID string
	Reason             string
}

// VerifyChain checks entries ordered oldest first.
func VerifyChain(entries []*Entry) VerificationReport {
	report := VerificationReport{Balance: decimal.Zero, Consistent: true}

	var prev *Entry
	for _, entry := range entries {
		expected := CurrentBalance(prev).Amount

		switch {
		case !entry.BalanceBefore.Equal(expected):
			report.fail(entry, fmt.Sprintf("balance_before %s, expected %s", entry.BalanceBefore, expected))
		case prev != nil && entry.PreviousEntryID != prev.ID:
			report.fail(entry, fmt.Sprintf("previous entry %q, expected %q", entry.PreviousEntryID, prev.ID))
		case prev == nil && entry.PreviousEntryID != "":
			report.fail(entry, "first entry references a previous entry")
		case entry.BalanceAfter().IsNegative():
			report.fail(entry, fmt.Sprintf("negative balance %s", entry.BalanceAfter()))
		}
		if !report.Consistent {
			return report
		}

		report.EntriesChecked++
		report.Balance = entry.BalanceAfter()
		prev = entry
	}

	return report
}

func (r *VerificationReport) fail(entry *Entry, reason string) {
	r.Consistent = false
	r.FirstBrokenEntryID = entry.ID
	r.Reason = reason
}
