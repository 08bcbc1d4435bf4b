package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goremit/internal/domain"
)

// RemitUseCase orchestrates transfers between friends' accounts.
type RemitUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	friends         RelationshipOracle
	locker          *AccountLocker
	retrier         Retrier
	metrics         Metrics
	logger          zerolog.Logger
	now             func() time.Time
}

// NewRemitUseCase creates a new RemitUseCase.
func NewRemitUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	friends RelationshipOracle,
	locker *AccountLocker,
	retrier Retrier,
	metrics Metrics,
	logger zerolog.Logger,
) *RemitUseCase {
	if retrier == nil {
		retrier = runOnce{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &RemitUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		friends:         friends,
		locker:          locker,
		retrier:         retrier,
		metrics:         metrics,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// RemitInput represents a transfer request.
type RemitInput struct {
	Amount                 int64
	RemitterAccountNumber  string
	RecipientAccountNumber string
}

// Remit moves Amount from the caller's account to a friend's account.
//
// Both account locks are held for the whole operation. When either account
// cannot be resolved the error is returned and nothing is ledgered. Any
// later failure is recorded as a FAIL transaction, which is returned
// together with the original error.
func (uc *RemitUseCase) Remit(ctx context.Context, input RemitInput, callerID string) (*domain.Transaction, error) {
	if input.Amount <= 0 || input.RemitterAccountNumber == input.RecipientAccountNumber {
		return nil, domain.ErrBadRequest
	}

	unlock, err := uc.locker.LockAccounts(ctx, input.RemitterAccountNumber, input.RecipientAccountNumber)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		txn                 *domain.Transaction
		remitter, recipient *domain.Account
	)

	err = uc.retrier.Retry(ctx, func() error {
		remitter, recipient = nil, nil

		var err error
		txn, err = uc.remitOnce(ctx, input, callerID, &remitter, &recipient)
		return err
	})
	if err == nil {
		uc.metrics.RemitCompleted(domain.TransactionResultSuccess, input.Amount)
		return txn, nil
	}

	if remitter == nil || recipient == nil {
		return nil, err
	}

	return uc.recordFailure(ctx, input, remitter, recipient, err)
}

// remitOnce runs one attempt inside a database transaction. The resolved
// accounts are copied out as loaded, before any mutation.
func (uc *RemitUseCase) remitOnce(
	ctx context.Context,
	input RemitInput,
	callerID string,
	remitterOut, recipientOut **domain.Account,
) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	remitter, err := uc.accountRepo.GetByNumberForUpdate(ctx, tx, input.RemitterAccountNumber)
	if err != nil {
		return nil, err
	}

	recipient, err := uc.accountRepo.GetByNumberForUpdate(ctx, tx, input.RecipientAccountNumber)
	if err != nil {
		return nil, err
	}

	remitterLoaded, recipientLoaded := *remitter, *recipient
	*remitterOut, *recipientOut = &remitterLoaded, &recipientLoaded

	if err := remitter.CheckOwner(callerID); err != nil {
		return nil, err
	}

	if err := uc.checkFriends(ctx, callerID, recipient.OwnerID); err != nil {
		return nil, err
	}

	now := uc.now()

	txn := domain.NewRemitRequest(input.Amount, remitter.Number, recipient.Number)
	if err := txn.Succeed(remitter, recipient, now); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, remitter.Number, remitter.Balance, now); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, recipient.Number, recipient.Balance, now); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.CreateTx(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// checkFriends looks the relation up in both directions.
func (uc *RemitUseCase) checkFriends(ctx context.Context, caller, owner string) error {
	ok, err := uc.friends.Exists(ctx, caller, owner)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	ok, err = uc.friends.Exists(ctx, owner, caller)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFriends
	}

	return nil
}

// recordFailure persists a FAIL record with the balances as they stand after
// rollback, then hands back the original cause.
func (uc *RemitUseCase) recordFailure(
	ctx context.Context,
	input RemitInput,
	remitter, recipient *domain.Account,
	cause error,
) (*domain.Transaction, error) {
	ctx = context.WithoutCancel(ctx)

	failed := domain.NewRemitRequest(input.Amount, remitter.Number, recipient.Number)
	if err := failed.Fail(remitter, recipient, uc.now()); err != nil {
		return nil, errors.Join(cause, err)
	}

	if err := uc.transactionRepo.Create(ctx, failed); err != nil {
		uc.logger.Error().
			Err(err).
			AnErr("cause", cause).
			Str("remitter", remitter.Number).
			Str("recipient", recipient.Number).
			Int64("amount", input.Amount).
			Msg("failed to record failed remittance")

		return nil, errors.Join(cause, err)
	}

	uc.metrics.RemitCompleted(domain.TransactionResultFail, input.Amount)

	uc.logger.Info().
		Err(cause).
		Int64("transaction_id", failed.ID).
		Str("remitter", remitter.Number).
		Str("recipient", recipient.Number).
		Msg("remittance failed")

	return failed, cause
}

// ListTransactionsInput represents input for listing an account's history.
type ListTransactionsInput struct {
	AccountNumber string
	RequesterID   string
	Page          int
	Size          int
}

// ListTransactions returns successful transactions involving the account,
// newest first.
func (uc *RemitUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	account, err := uc.accountRepo.GetByNumber(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	if err := account.CheckOwner(input.RequesterID); err != nil {
		return nil, err
	}

	page, size := domain.NormalizePage(input.Page, input.Size)

	return uc.transactionRepo.ListSuccessfulByAccount(ctx, account.Number, size, page*size)
}
