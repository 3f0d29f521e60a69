package domain

import "time"

// Event types
const (
	EventTypeWalletDeposited = "wallet.deposited"
	EventTypeWalletWithdrawn = "wallet.withdrawn"
)

// EntryAppendedEvent is emitted after an entry has been durably appended.
type EntryAppendedEvent struct {
	EventType     string    `json:"event_type"`
	EntryID       string    `json:"entry_id"`
	Amount        string    `json:"amount"`
	BalanceBefore string    `json:"balance_before"`
	BalanceAfter  string    `json:"balance_after"`
	EventTime     time.Time `json:"event_time"`
}

// NewEntryAppendedEvent builds the event payload for entry.
func NewEntryAppendedEvent(entry *Entry) EntryAppendedEvent {
	eventType := EventTypeWalletWithdrawn
	if entry.IsDeposit() {
		eventType = EventTypeWalletDeposited
	}

	return EntryAppendedEvent{
		EventType:     eventType,
		EntryID:       entry.ID,
		Amount:        entry.Amount.String(),
		BalanceBefore: entry.BalanceBefore.String(),
		BalanceAfter:  entry.BalanceAfter().String(),
		EventTime:     entry.EventTime,
	}
}
