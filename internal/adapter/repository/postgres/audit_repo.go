package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// AuditRepository persists wallet audit logs.
type AuditRepository struct {
	queries *generated.Queries
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return newAuditRepositoryWithDB(pool)
}

func newAuditRepositoryWithDB(db generated.DBTX) *AuditRepository {
	return &AuditRepository{queries: generated.New(db)}
}

// Create inserts a new audit log, assigning a random UUID when log.ID is empty.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	id, err := uuid.Parse(log.ID)
	if err != nil {
		return fmt.Errorf("audit log id %q: %w", log.ID, err)
	}

	balanceAfter := pgtype.Numeric{}
	if log.EntryID != "" {
		balanceAfter = decimalToNumeric(log.BalanceAfter)
	}

	err = r.queries.CreateAuditLog(ctx, generated.CreateAuditLogParams{
		ID:           pgtype.UUID{Bytes: id, Valid: true},
		Action:       log.Action,
		Status:       log.Status,
		Amount:       decimalToNumeric(log.Amount),
		EntryID:      stringToPgText(log.EntryID),
		BalanceAfter: balanceAfter,
		ErrorMessage: stringToPgText(log.ErrorMessage),
		RequestID:    stringToPgText(log.RequestID),
		IpAddress:    stringToPgText(log.IPAddress),
		UserAgent:    stringToPgText(log.UserAgent),
		CreatedAt:    timeToPgTimestamptz(log.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List returns audit logs newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	rows, err := r.queries.ListAuditLogs(ctx, generated.ListAuditLogsParams{
		Action: stringToPgText(filter.Action),
		Status: stringToPgText(filter.Status),
		Limit:  int32(filter.Limit),
		Offset: int32(filter.Offset),
	})
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}

	logs := make([]*domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, rowToAuditLog(row))
	}
	return logs, nil
}

func rowToAuditLog(row generated.WalletAuditLog) *domain.AuditLog {
	balanceAfter := decimal.Zero
	if row.BalanceAfter.Valid {
		balanceAfter = numericToDecimal(row.BalanceAfter)
	}

	return &domain.AuditLog{
		ID:           uuid.UUID(row.ID.Bytes).String(),
		Action:       row.Action,
		Status:       row.Status,
		Amount:       numericToDecimal(row.Amount),
		EntryID:      row.EntryID.String,
		BalanceAfter: balanceAfter,
		ErrorMessage: row.ErrorMessage.String,
		RequestID:    row.RequestID.String,
		IPAddress:    row.IpAddress.String,
		UserAgent:    row.UserAgent.String,
		CreatedAt:    row.CreatedAt.Time.UTC(),
	}
}

var _ usecase.AuditRepository = (*AuditRepository)(nil)
