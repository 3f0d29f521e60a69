package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

func appendAmounts(t *testing.T, s *LedgerStore, amounts ...int64) []*domain.Entry {
	t.Helper()

	var appended []*domain.Entry
	for i, a := range amounts {
		last, err := s.LastEntry(context.Background())
		if err != nil {
			t.Fatalf("LastEntry failed: %v", err)
		}
		e := domain.NewEntry(string(rune('a'+i)), last, decimal.NewFromInt(a), time.Now().UTC())
		if err := s.AppendEntry(context.Background(), e); err != nil {
			t.Fatalf("AppendEntry failed: %v", err)
		}
		appended = append(appended, e)
	}
	return appended
}

func TestLedgerStore_EmptyLastEntry(t *testing.T) {
	s := NewLedgerStore()

	last, err := s.LastEntry(context.Background())
	if err != nil || last != nil {
		t.Fatalf("expected nil entry on empty ledger, got %+v err=%v", last, err)
	}
}

func TestLedgerStore_AppendAndLast(t *testing.T) {
	s := NewLedgerStore()
	appendAmounts(t, s, 70, 200)

	last, err := s.LastEntry(context.Background())
	if err != nil {
		t.Fatalf("LastEntry failed: %v", err)
	}
	if last.ID != "b" || !last.BalanceAfter().Equal(decimal.NewFromInt(270)) {
		t.Fatalf("unexpected last entry: %+v", last)
	}
}

func TestLedgerStore_RejectsStaleAppend(t *testing.T) {
	s := NewLedgerStore()
	appendAmounts(t, s, 70)

	stale := domain.NewEntry("x", nil, decimal.NewFromInt(5), time.Now().UTC())
	if err := s.AppendEntry(context.Background(), stale); !errors.Is(err, domain.ErrLedgerConflict) {
		t.Fatalf("expected ErrLedgerConflict, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected ledger unchanged, got %d entries", s.Len())
	}
}

func TestLedgerStore_ListEntries(t *testing.T) {
	s := NewLedgerStore()
	appendAmounts(t, s, 1, 2, 3, 4)

	page, err := s.ListEntries(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(page) != 2 || page[0].ID != "c" || page[1].ID != "b" {
		t.Fatalf("unexpected page: %+v", page)
	}

	all, err := s.ListAllEntries(context.Background())
	if err != nil {
		t.Fatalf("ListAllEntries failed: %v", err)
	}
	if len(all) != 4 || all[0].ID != "a" || all[3].ID != "d" {
		t.Fatalf("unexpected order: %+v", all)
	}
}

func TestLedgerStore_ReturnsCopies(t *testing.T) {
	s := NewLedgerStore()
	appendAmounts(t, s, 10)

	last, _ := s.LastEntry(context.Background())
	last.Amount = decimal.NewFromInt(999)

	again, _ := s.LastEntry(context.Background())
	if !again.Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("stored entry was mutated through returned pointer")
	}
}
