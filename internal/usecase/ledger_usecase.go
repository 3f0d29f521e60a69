package usecase

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	entryRepo EntryRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(entryRepo EntryRepository) *LedgerUseCase {
	return &LedgerUseCase{
		entryRepo: entryRepo,
	}
}

// Verify walks the entire ledger and checks that every entry continues from the
// one before it. The report is returned together with domain.ErrInconsistentLedger
// when the chain is broken.
func (uc *LedgerUseCase) Verify(ctx context.Context) (domain.VerificationReport, error) {
	entries, err := uc.entryRepo.ListAllEntries(ctx)
	if err != nil {
		return domain.VerificationReport{}, err
	}

	report := domain.VerifyChain(entries)
	if !report.Consistent {
		return report, domain.ErrInconsistentLedger
	}

	return report, nil
}
