package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletUseCase is the wallet engine. It keeps no balance state of its own:
// every call derives the balance from the latest ledger entry.
type WalletUseCase struct {
	store     LedgerStore
	idGen     IDGenerator
	retrier   Retrier
	publisher EventPublisher
	auditRepo AuditRepository
	metrics   MetricsRecorder
	logger    zerolog.Logger
	now       func() time.Time

	// mu serializes read-then-append within this process. Appends from other
	// processes are caught by the store's previous-entry check.
	mu sync.Mutex
}

// WalletOption configures optional WalletUseCase collaborators.
type WalletOption func(*WalletUseCase)

// WithRetrier retries the read-validate-append cycle on ledger conflicts.
func WithRetrier(r Retrier) WalletOption {
	return func(uc *WalletUseCase) { uc.retrier = r }
}

// WithEventPublisher publishes an event after every successful append.
func WithEventPublisher(p EventPublisher) WalletOption {
	return func(uc *WalletUseCase) { uc.publisher = p }
}

// WithAuditLog records the outcome of every deposit and withdrawal,
// including rejected ones.
func WithAuditLog(repo AuditRepository) WalletOption {
	return func(uc *WalletUseCase) { uc.auditRepo = repo }
}

// WithMetrics records operation outcomes.
func WithMetrics(m MetricsRecorder) WalletOption {
	return func(uc *WalletUseCase) { uc.metrics = m }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) WalletOption {
	return func(uc *WalletUseCase) { uc.logger = l }
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) WalletOption {
	return func(uc *WalletUseCase) { uc.now = now }
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(store LedgerStore, idGen IDGenerator, opts ...WalletOption) *WalletUseCase {
	uc := &WalletUseCase{
		store:   store,
		idGen:   idGen,
		metrics: noopMetrics{},
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// GetBalance returns the current wallet balance.
func (uc *WalletUseCase) GetBalance(ctx context.Context) (domain.Balance, error) {
	last, err := uc.store.LastEntry(ctx)
	if err != nil {
		return domain.Balance{}, err
	}
	return domain.CurrentBalance(last), nil
}

// Deposit appends an entry of +amount. The engine does not validate the sign
// of amount; callers reject non-positive amounts before calling it.
func (uc *WalletUseCase) Deposit(ctx context.Context, amount decimal.Decimal) (domain.Balance, error) {
	return uc.apply(ctx, OperationDeposit, domain.AuditActionDeposit, amount, func(domain.Balance) (decimal.Decimal, error) {
		return amount, nil
	})
}

// Withdraw appends an entry of -amount. It fails with domain.ErrInsufficientBalance
// and writes nothing when amount exceeds the current balance.
func (uc *WalletUseCase) Withdraw(ctx context.Context, amount decimal.Decimal) (domain.Balance, error) {
	return uc.apply(ctx, OperationWithdraw, domain.AuditActionWithdraw, amount, func(current domain.Balance) (decimal.Decimal, error) {
		if !current.CanWithdraw(amount) {
			uc.logger.Debug().
				Str("requested", amount.String()).
				Str("balance", current.Amount.String()).
				Msg("withdrawal rejected")
			return decimal.Zero, domain.ErrInsufficientBalance
		}
		return amount.Neg(), nil
	})
}

func (uc *WalletUseCase) apply(
	ctx context.Context,
	operation string,
	action domain.AuditAction,
	amount decimal.Decimal,
	delta func(current domain.Balance) (decimal.Decimal, error),
) (domain.Balance, error) {
	start := uc.now()

	ctx, cancel := context.WithTimeout(ctx, DefaultOperationTimeout)
	defer cancel()

	entry, err := uc.appendNext(ctx, delta)
	uc.metrics.ObserveOperation(operation, err, uc.now().Sub(start))
	uc.audit(ctx, action, amount, entry, err)
	if err != nil {
		return domain.Balance{}, err
	}

	balance := domain.Balance{Amount: entry.BalanceAfter()}
	uc.metrics.SetBalance(balance.Amount)

	uc.logger.Info().
		Str("operation", operation).
		Str("entry_id", entry.ID).
		Str("amount", entry.Amount.String()).
		Str("balance", balance.Amount.String()).
		Msg("entry appended")

	uc.publish(ctx, entry)

	return balance, nil
}

// appendNext runs one read-validate-append cycle, retried on ledger conflicts.
func (uc *WalletUseCase) appendNext(
	ctx context.Context,
	delta func(current domain.Balance) (decimal.Decimal, error),
) (*domain.Entry, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var entry *domain.Entry
	attempt := func() error {
		last, err := uc.store.LastEntry(ctx)
		if err != nil {
			return err
		}

		amount, err := delta(domain.CurrentBalance(last))
		if err != nil {
			return err
		}

		next := domain.NewEntry(uc.idGen.Generate(), last, amount, uc.now().UTC())
		if err := uc.store.AppendEntry(ctx, next); err != nil {
			return err
		}

		entry = next
		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, attempt)
	} else {
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *WalletUseCase) publish(ctx context.Context, entry *domain.Entry) {
	if uc.publisher == nil {
		return
	}

	// The entry is already durable, so its event goes out even if the caller gave up.
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), domain.NewEntryAppendedEvent(entry)); err != nil {
		uc.logger.Error().
			Err(err).
			Str("entry_id", entry.ID).
			Msg("failed to publish entry event")
	}
}

func (uc *WalletUseCase) audit(ctx context.Context, action domain.AuditAction, amount decimal.Decimal, entry *domain.Entry, opErr error) {
	if uc.auditRepo == nil {
		return
	}

	record := &domain.AuditLog{
		Action:    string(action),
		Status:    string(domain.AuditStatusFor(opErr)),
		Amount:    amount,
		CreatedAt: uc.now().UTC(),
	}
	if md, ok := domain.RequestMetadataFromContext(ctx); ok {
		record.RequestID = md.RequestID
		record.IPAddress = md.IPAddress
		record.UserAgent = md.UserAgent
	}
	if opErr != nil {
		record.ErrorMessage = opErr.Error()
	} else if entry != nil {
		record.EntryID = entry.ID
		record.BalanceAfter = entry.BalanceAfter()
	}

	if err := uc.auditRepo.Create(context.WithoutCancel(ctx), record); err != nil {
		uc.logger.Error().
			Err(err).
			Str("action", record.Action).
			Str("status", record.Status).
			Msg("failed to write audit log")
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, error, time.Duration) {}
func (noopMetrics) SetBalance(decimal.Decimal)                    {}
