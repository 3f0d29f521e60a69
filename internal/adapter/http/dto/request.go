package dto

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// AmountRequest is the body of deposit and withdraw requests. Amount accepts a
// JSON number or a numeric string such as "70.25".
type AmountRequest struct {
	Amount json.Number `json:"amount" validate:"required,numeric"`
}

// ToAmount parses and validates the requested amount.
func (r *AmountRequest) ToAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, err)
	}

	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Decimal{}, err
	}

	return amount, nil
}
