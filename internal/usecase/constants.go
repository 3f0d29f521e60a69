package usecase

import "time"

const (
	// DefaultOperationTimeout bounds a single deposit or withdrawal including retries.
	DefaultOperationTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Operation names used for metrics and logs.
const (
	OperationDeposit  = "deposit"
	OperationWithdraw = "withdraw"
)
