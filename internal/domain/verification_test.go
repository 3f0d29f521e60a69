package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func buildChain(amounts ...int64) []*Entry {
	var (
		entries []*Entry
		last    *Entry
	)
	for i, a := range amounts {
		e := NewEntry(string(rune('a'+i)), last, decimal.NewFromInt(a), time.Now().UTC())
		entries = append(entries, e)
		last = e
	}
	return entries
}

func TestVerifyChain_Consistent(t *testing.T) {
	report := VerifyChain(buildChain(70, 200, -50))

	if !report.Consistent {
		t.Fatalf("expected consistent ledger, got %+v", report)
	}
	if report.EntriesChecked != 3 {
		t.Fatalf("expected 3 entries checked, got %d", report.EntriesChecked)
	}
	if !report.Balance.Equal(decimal.NewFromInt(220)) {
		t.Fatalf("expected balance 220, got %s", report.Balance)
	}
}

func TestVerifyChain_Empty(t *testing.T) {
	report := VerifyChain(nil)
	if !report.Consistent || !report.Balance.IsZero() {
		t.Fatalf("expected empty ledger to be consistent, got %+v", report)
	}
}

func TestVerifyChain_BrokenSnapshot(t *testing.T) {
	entries := buildChain(70, 200)
	entries[1].BalanceBefore = decimal.NewFromInt(10)

	report := VerifyChain(entries)
	if report.Consistent || report.FirstBrokenEntryID != entries[1].ID {
		t.Fatalf("expected second entry to be flagged, got %+v", report)
	}
}

func TestVerifyChain_BrokenLink(t *testing.T) {
	entries := buildChain(70, 200)
	entries[1].PreviousEntryID = "missing"

	report := VerifyChain(entries)
	if report.Consistent || report.FirstBrokenEntryID != entries[1].ID {
		t.Fatalf("expected broken link to be flagged, got %+v", report)
	}
}

func TestVerifyChain_NegativeBalance(t *testing.T) {
	report := VerifyChain(buildChain(10, -20))
	if report.Consistent {
		t.Fatalf("expected negative balance to be flagged")
	}
}
