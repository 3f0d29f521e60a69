package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// LedgerStore is the append-only wallet ledger consumed by the wallet engine.
type LedgerStore interface {
	// LastEntry returns the most recently appended entry, or nil when the ledger is empty.
	LastEntry(ctx context.Context) (*domain.Entry, error)
	// AppendEntry durably appends entry. It returns domain.ErrLedgerConflict when
	// the latest entry is no longer entry.PreviousEntryID.
	AppendEntry(ctx context.Context, entry *domain.Entry) error
}

// EntryRepository defines read access to the ledger history.
type EntryRepository interface {
	// ListEntries returns entries newest first.
	ListEntries(ctx context.Context, limit, offset int) ([]*domain.Entry, error)
	// ListAllEntries returns every entry oldest first.
	ListAllEntries(ctx context.Context) ([]*domain.Entry, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	// Create stores log, assigning an ID when it has none.
	Create(ctx context.Context, log *domain.AuditLog) error
	// List returns audit logs newest first.
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation while it fails with a retryable error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// EventPublisher publishes wallet events to external systems.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.EntryAppendedEvent) error
}

// MetricsRecorder records wallet engine metrics.
type MetricsRecorder interface {
	ObserveOperation(operation string, err error, duration time.Duration)
	SetBalance(balance decimal.Decimal)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete so it can be retried.
	Release(ctx context.Context, key string) error
}
