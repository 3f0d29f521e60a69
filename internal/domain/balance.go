package domain

import "github.com/shopspring/decimal"

// Balance is the derived wallet balance. It is never persisted.
type Balance struct {
	Amount decimal.Decimal
}

// CurrentBalance derives the balance from the most recent entry.
func CurrentBalance(last *Entry) Balance {
	if last == nil {
		return Balance{Amount: decimal.Zero}
	}
	return Balance{Amount: last.BalanceAfter()}
}

// CanWithdraw reports whether amount can be taken without going below zero.
func (b Balance) CanWithdraw(amount decimal.Decimal) bool {
	return !amount.GreaterThan(b.Amount)
}
