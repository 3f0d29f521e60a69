package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
)

// WalletService is the wallet engine as seen by the HTTP layer.
type WalletService interface {
	GetBalance(ctx context.Context) (domain.Balance, error)
	Deposit(ctx context.Context, amount decimal.Decimal) (domain.Balance, error)
	Withdraw(ctx context.Context, amount decimal.Decimal) (domain.Balance, error)
}

// WalletHandler handles balance, deposit and withdraw requests.
type WalletHandler struct {
	walletUC WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// GetBalance returns the current balance.
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.walletUC.GetBalance(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// Deposit adds funds to the wallet.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, "failed to deposit", h.walletUC.Deposit)
}

// Withdraw removes funds from the wallet.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, "failed to withdraw", h.walletUC.Withdraw)
}

func (h *WalletHandler) applyAmount(
	w http.ResponseWriter,
	r *http.Request,
	failure string,
	op func(context.Context, decimal.Decimal) (domain.Balance, error),
) {
	req, ok := decodeAmount(w, r)
	if !ok {
		return
	}

	amount, err := req.ToAmount()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	balance, err := op(r.Context(), amount)
	if err != nil {
		writeError(w, mapDomainError(err), failure, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}
