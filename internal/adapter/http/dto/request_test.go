package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

func TestAmountRequest_DecodesStringAndNumber(t *testing.T) {
	for _, body := range []string{`{"amount":"70.5"}`, `{"amount":70.5}`} {
		var req AmountRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}

		amount, err := req.ToAmount()
		if err != nil {
			t.Fatalf("ToAmount(%s) returned error: %v", body, err)
		}
		if !amount.Equal(decimal.RequireFromString("70.5")) {
			t.Fatalf("expected 70.5, got %s", amount)
		}
	}
}

func TestAmountRequest_ToAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{"valid", "12.34", nil},
		{"smallest unit", "0.00000001", nil},
		{"zero", "0", domain.ErrInvalidAmount},
		{"negative", "-5", domain.ErrInvalidAmount},
		{"too large", "1000000000000.01", domain.ErrAmountTooLarge},
		{"too precise", "1.000000001", domain.ErrAmountTooPrecise},
		{"not a number", "abc", domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &AmountRequest{Amount: json.Number(tt.amount)}
			_, err := req.ToAmount()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request AmountRequest
		wantTag string
	}{
		{"missing amount", AmountRequest{}, "required"},
		{"non numeric amount", AmountRequest{Amount: "1e5x"}, "numeric"},
		{"valid amount", AmountRequest{Amount: "10"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.request)
			if tt.wantTag == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no validation errors, got %+v", errs)
				}
				return
			}
			if len(errs) != 1 || errs[0].Tag != tt.wantTag || errs[0].Field != "Amount" {
				t.Fatalf("expected %s error on Amount, got %+v", tt.wantTag, errs)
			}
		})
	}
}
