package domain

import "errors"

var (
	// Wallet errors
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")

	// Ledger errors
	ErrLedgerConflict     = errors.New("ledger was appended concurrently")
	ErrInconsistentLedger = errors.New("ledger chain is inconsistent")
)
