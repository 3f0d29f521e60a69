package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AuditLog records the outcome of a balance-changing request, including
// requests that were rejected and therefore never reached the ledger.
type AuditLog struct {
	ID           string
	Action       string          // wallet.deposit or wallet.withdraw
	Status       string          // success, failure, error
	Amount       decimal.Decimal // amount as requested
	EntryID      string          // appended entry, empty unless Status is success
	BalanceAfter decimal.Decimal // zero unless Status is success
	ErrorMessage string
	RequestID    string
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionDeposit  AuditAction = "wallet.deposit"
	AuditActionWithdraw AuditAction = "wallet.withdraw"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// AuditStatusFor classifies an operation result. Business rejections are
// failures; anything unexpected is an error.
func AuditStatusFor(err error) AuditStatus {
	switch {
	case err == nil:
		return AuditStatusSuccess
	case errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrAmountTooLarge),
		errors.Is(err, ErrAmountTooPrecise):
		return AuditStatusFailure
	default:
		return AuditStatusError
	}
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	Action string
	Status string
	Limit  int
	Offset int
}

// RequestMetadata identifies the client request behind an operation.
type RequestMetadata struct {
	RequestID string
	IPAddress string
	UserAgent string
}

type requestMetadataKey struct{}

// ContextWithRequestMetadata returns a copy of ctx carrying md.
func ContextWithRequestMetadata(ctx context.Context, md RequestMetadata) context.Context {
	return context.WithValue(ctx, requestMetadataKey{}, md)
}

// RequestMetadataFromContext returns the request metadata stored in ctx, if any.
func RequestMetadataFromContext(ctx context.Context) (RequestMetadata, bool) {
	md, ok := ctx.Value(requestMetadataKey{}).(RequestMetadata)
	return md, ok
}
