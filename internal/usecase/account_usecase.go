package usecase

import (
	"context"
	"time"

	"github.com/iho/goremit/internal/domain"
)

// AccountUseCase owns account creation and single-account balance changes.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	locker      *AccountLocker
	retrier     Retrier
	metrics     Metrics
	now         func() time.Time
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	locker *AccountLocker,
	retrier Retrier,
	metrics Metrics,
) *AccountUseCase {
	if retrier == nil {
		retrier = runOnce{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		locker:      locker,
		retrier:     retrier,
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// OpenAccount opens the next account number for ownerID.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, ownerID string) (*domain.Account, error) {
	unlock, err := uc.locker.LockAllocator(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	count, err := uc.accountRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if count >= domain.MaxAccountsPerOwner {
		return nil, domain.ErrAccountSizeExceed
	}

	last, err := uc.accountRepo.LatestNumber(ctx)
	if err != nil {
		return nil, err
	}

	account, err := domain.NewAccount(ownerID, last, uc.now())
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.metrics.AccountOpened()

	return account, nil
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountNumber string
	Amount        int64
	RequesterID   string
}

// Deposit adds funds to an account owned by the requester.
func (uc *AccountUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Account, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrBadRequest
	}

	unlock, err := uc.locker.LockAccounts(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var account *domain.Account

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		acc, err := uc.accountRepo.GetByNumberForUpdate(ctx, tx, input.AccountNumber)
		if err != nil {
			return err
		}

		if err := acc.CheckOwner(input.RequesterID); err != nil {
			return err
		}

		acc.Credit(input.Amount)
		acc.UpdatedAt = uc.now()

		if err := uc.accountRepo.UpdateBalance(ctx, tx, acc.Number, acc.Balance, acc.UpdatedAt); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		account = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.DepositCompleted(input.Amount)

	return account, nil
}

// GetAccount returns an account owned by the requester.
func (uc *AccountUseCase) GetAccount(ctx context.Context, number, requesterID string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if err := account.CheckOwner(requesterID); err != nil {
		return nil, err
	}

	return account, nil
}
