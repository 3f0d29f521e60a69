package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type entryServiceStub struct {
	listFn func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error)
}

func (s *entryServiceStub) ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error) {
	return s.listFn(ctx, input)
}

func TestEntryHandler_List(t *testing.T) {
	var captured usecase.ListEntriesInput
	handler := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error) {
			captured = input
			return []*domain.Entry{
				{ID: "e-2", PreviousEntryID: "e-1", Amount: decimal.NewFromInt(-50), BalanceBefore: decimal.NewFromInt(270), EventTime: time.Now().UTC()},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/wallet/entries?limit=500&offset=3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Limit != 500 || captured.Offset != 3 {
		t.Fatalf("expected raw query values to reach the use case, got %+v", captured)
	}

	var resp dto.EntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Limit != domain.MaxPageSize || resp.Offset != 3 {
		t.Fatalf("expected clamped paging in response, got limit=%d offset=%d", resp.Limit, resp.Offset)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Type != dto.EntryTypeWithdrawal {
		t.Fatalf("unexpected entries: %+v", resp.Entries)
	}
}

func TestEntryHandler_ListInvalidPagination(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error) {
			return nil, domain.ErrInvalidPagination
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/wallet/entries?offset=-1", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
