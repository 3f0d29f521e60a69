package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/iho/gowallet/internal/domain"
)

func TestAuditRepositoryCreateAssignsUUID(t *testing.T) {
	repo := NewAuditRepository()
	log := &domain.AuditLog{Action: string(domain.AuditActionDeposit), Status: string(domain.AuditStatusSuccess)}

	if err := repo.Create(context.Background(), log); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := uuid.Parse(log.ID); err != nil {
		t.Fatalf("expected a UUID id, got %q", log.ID)
	}

	kept := &domain.AuditLog{ID: "given", Action: string(domain.AuditActionDeposit)}
	if err := repo.Create(context.Background(), kept); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if kept.ID != "given" {
		t.Fatalf("existing id was replaced: %q", kept.ID)
	}
}

func TestAuditRepositoryListFiltersNewestFirst(t *testing.T) {
	repo := NewAuditRepository()
	ctx := context.Background()

	records := []domain.AuditLog{
		{ID: "1", Action: string(domain.AuditActionDeposit), Status: string(domain.AuditStatusSuccess)},
		{ID: "2", Action: string(domain.AuditActionWithdraw), Status: string(domain.AuditStatusFailure)},
		{ID: "3", Action: string(domain.AuditActionWithdraw), Status: string(domain.AuditStatusSuccess)},
		{ID: "4", Action: string(domain.AuditActionWithdraw), Status: string(domain.AuditStatusFailure)},
	}
	for i := range records {
		if err := repo.Create(ctx, &records[i]); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := repo.List(ctx, domain.AuditFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 4 || all[0].ID != "4" || all[3].ID != "1" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	failures, err := repo.List(ctx, domain.AuditFilter{
		Action: string(domain.AuditActionWithdraw),
		Status: string(domain.AuditStatusFailure),
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(failures) != 2 || failures[0].ID != "4" || failures[1].ID != "2" {
		t.Fatalf("unexpected failures: %+v", failures)
	}

	page, err := repo.List(ctx, domain.AuditFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != 1 || page[0].ID != "3" {
		t.Fatalf("unexpected page: %+v", page)
	}

	empty, err := repo.List(ctx, domain.AuditFilter{Offset: 10})
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty page, got %+v (err=%v)", empty, err)
	}
}
