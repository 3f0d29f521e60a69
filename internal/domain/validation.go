package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge    = errors.New("amount exceeds maximum allowed")
	ErrAmountTooPrecise  = errors.New("amount has too many decimal places")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
)

// Validation constants
const (
	MaxAmount      = "1000000000000" // 1 trillion
	MaxAmountScale = 8

	DefaultPageSize = 20
	MaxPageSize     = 100
)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ValidateAmount validates a deposit or withdrawal amount supplied by a client.
// The wallet engine itself accepts any decimal.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	if -amount.Exponent() > MaxAmountScale && !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("%w: at most %d allowed", ErrAmountTooPrecise, MaxAmountScale)
	}

	return nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int, error) {
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset must not be negative", ErrInvalidPagination)
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return limit, offset, nil
}
