package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// LedgerStore implements usecase.LedgerStore and usecase.EntryRepository.
type LedgerStore struct {
	queries *generated.Queries
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return newLedgerStoreWithDB(pool)
}

func newLedgerStoreWithDB(db generated.DBTX) *LedgerStore {
	return &LedgerStore{queries: generated.New(db)}
}

// LastEntry returns the most recently appended entry, or nil when the ledger is empty.
func (s *LedgerStore) LastEntry(ctx context.Context) (*domain.Entry, error) {
	row, err := s.queries.GetLastEntry(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last entry: %w", err)
	}

	return rowToEntry(row), nil
}

// AppendEntry inserts entry. The previous_entry_id unique constraint rejects a
// second successor for the same entry, which is reported as domain.ErrLedgerConflict.
// Amounts are stored as NUMERIC(28,8), so values with more than
// domain.MaxAmountScale significant decimal places are rejected instead of rounded.
func (s *LedgerStore) AppendEntry(ctx context.Context, entry *domain.Entry) error {
	if err := checkScale(entry); err != nil {
		return err
	}

	err := s.queries.CreateEntry(ctx, generated.CreateEntryParams{
		ID:              entry.ID,
		PreviousEntryID: stringToPgText(entry.PreviousEntryID),
		Amount:          decimalToNumeric(entry.Amount),
		BalanceBefore:   decimalToNumeric(entry.BalanceBefore),
		EventTime:       timeToPgTimestamptz(entry.EventTime),
	})
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation, pgErrForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrLedgerConflict, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("append entry: %w", err)
}

func checkScale(entry *domain.Entry) error {
	for _, d := range []decimal.Decimal{entry.Amount, entry.BalanceBefore} {
		if -d.Exponent() > domain.MaxAmountScale && !d.Equal(d.Truncate(domain.MaxAmountScale)) {
			return fmt.Errorf("append entry %s: %w: %s", entry.ID, domain.ErrAmountTooPrecise, d)
		}
	}
	return nil
}

// ListEntries returns entries newest first.
func (s *LedgerStore) ListEntries(ctx context.Context, limit, offset int) ([]*domain.Entry, error) {
	rows, err := s.queries.ListEntries(ctx, generated.ListEntriesParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return rowsToEntries(rows), nil
}

// ListAllEntries returns every entry oldest first.
func (s *LedgerStore) ListAllEntries(ctx context.Context) ([]*domain.Entry, error) {
	rows, err := s.queries.ListAllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}

	return rowsToEntries(rows), nil
}

var (
	_ usecase.LedgerStore     = (*LedgerStore)(nil)
	_ usecase.EntryRepository = (*LedgerStore)(nil)
)
