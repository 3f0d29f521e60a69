package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// Entry types shown in API responses.
const (
	EntryTypeDeposit    = "deposit"
	EntryTypeWithdrawal = "withdrawal"
)

// BalanceResponse represents the wallet balance.
type BalanceResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b domain.Balance) *BalanceResponse {
	return &BalanceResponse{Amount: b.Amount}
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	PreviousEntryID string          `json:"previous_entry_id,omitempty"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	EventTime       time.Time       `json:"event_time"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	entryType := EntryTypeWithdrawal
	if e.IsDeposit() {
		entryType = EntryTypeDeposit
	}

	return &EntryResponse{
		ID:              e.ID,
		PreviousEntryID: e.PreviousEntryID,
		Type:            entryType,
		Amount:          e.Amount,
		BalanceBefore:   e.BalanceBefore,
		BalanceAfter:    e.BalanceAfter(),
		EventTime:       e.EventTime,
	}
}

// EntriesResponse is a page of ledger entries, newest first.
type EntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// EntriesFromDomain converts domain entries to a page response.
func EntriesFromDomain(entries []*domain.Entry, limit, offset int) *EntriesResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return &EntriesResponse{Entries: result, Limit: limit, Offset: offset}
}

// VerificationResponse represents the outcome of a ledger verification.
type VerificationResponse struct {
	Consistent         bool            `json:"consistent"`
	EntriesChecked     int             `json:"entries_checked"`
	Balance            decimal.Decimal `json:"balance"`
	FirstBrokenEntryID string          `json:"first_broken_entry_id,omitempty"`
	Reason             string          `json:"reason,omitempty"`
}

// VerificationFromDomain converts a verification report to a response.
func VerificationFromDomain(r domain.VerificationReport) *VerificationResponse {
	return &VerificationResponse{
		Consistent:         r.Consistent,
		EntriesChecked:     r.EntriesChecked,
		Balance:            r.Balance,
		FirstBrokenEntryID: r.FirstBrokenEntryID,
		Reason:             r.Reason,
	}
}

// AuditLogResponse represents an audit log in API responses.
type AuditLogResponse struct {
	ID           string           `json:"id"`
	Action       string           `json:"action"`
	Status       string           `json:"status"`
	Amount       decimal.Decimal  `json:"amount"`
	EntryID      string           `json:"entry_id,omitempty"`
	BalanceAfter *decimal.Decimal `json:"balance_after,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	RequestID    string           `json:"request_id,omitempty"`
	IPAddress    string           `json:"ip_address,omitempty"`
	UserAgent    string           `json:"user_agent,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// AuditLogFromDomain converts a domain audit log to a response.
func AuditLogFromDomain(l *domain.AuditLog) *AuditLogResponse {
	resp := &AuditLogResponse{
		ID:           l.ID,
		Action:       l.Action,
		Status:       l.Status,
		Amount:       l.Amount,
		EntryID:      l.EntryID,
		ErrorMessage: l.ErrorMessage,
		RequestID:    l.RequestID,
		IPAddress:    l.IPAddress,
		UserAgent:    l.UserAgent,
		CreatedAt:    l.CreatedAt,
	}
	if l.EntryID != "" {
		balance := l.BalanceAfter
		resp.BalanceAfter = &balance
	}
	return resp
}

// AuditLogsResponse is a page of audit logs, newest first.
type AuditLogsResponse struct {
	AuditLogs []*AuditLogResponse `json:"audit_logs"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
}

// AuditLogsFromDomain converts domain audit logs to a page response.
func AuditLogsFromDomain(logs []*domain.AuditLog, limit, offset int) *AuditLogsResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = AuditLogFromDomain(l)
	}
	return &AuditLogsResponse{AuditLogs: result, Limit: limit, Offset: offset}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details []ValidationError `json:"details,omitempty"`
}
