package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry represents a single immutable wallet ledger entry.
// Amount is positive for deposits and negative for withdrawals.
type Entry struct {
	EventTime       time.Time
	ID              string
	PreviousEntryID string
	Amount          decimal.Decimal
	BalanceBefore   decimal.Decimal
}

// BalanceAfter returns the wallet balance once this entry is applied.
func (e *Entry) BalanceAfter() decimal.Decimal {
	return e.BalanceBefore.Add(e.Amount)
}

// IsDeposit reports whether the entry increased the balance.
func (e *Entry) IsDeposit() bool {
	return e.Amount.IsPositive()
}

// NewEntry builds the entry that follows last. A nil last means the ledger is empty.
func NewEntry(id string, last *Entry, amount decimal.Decimal, at time.Time) *Entry {
	entry := &Entry{
		ID:            id,
		Amount:        amount,
		BalanceBefore: CurrentBalance(last).Amount,
		EventTime:     at,
	}
	if last != nil {
		entry.PreviousEntryID = last.ID
	}
	return entry
}
