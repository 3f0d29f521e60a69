package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
)

// LedgerService verifies the ledger chain.
type LedgerService interface {
	Verify(ctx context.Context) (domain.VerificationReport, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Verify checks that the ledger chain is consistent.
func (h *LedgerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.Verify(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrInconsistentLedger) {
			writeJSON(w, http.StatusConflict, dto.VerificationFromDomain(report))
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to verify ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VerificationFromDomain(report))
}
