package usecase

import (
	"context"
	"time"

	"github.com/iho/goremit/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetByNumberForUpdate(ctx context.Context, tx Transaction, number string) (*domain.Account, error)
	// LatestNumber returns the number of the most recently created account,
	// or "" when no account exists yet.
	LatestNumber(ctx context.Context) (string, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	UpdateBalance(ctx context.Context, tx Transaction, number string, balance int64, updatedAt time.Time) error
}

// TransactionRepository is the append-only remittance ledger.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	CreateTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	ListSuccessfulByAccount(ctx context.Context, accountNumber string, limit, offset int) ([]*domain.Transaction, error)
}

// RelationshipOracle answers whether a friend fact is recorded from userA to userB.
type RelationshipOracle interface {
	Exists(ctx context.Context, userA, userB string) (bool, error)
}

// LockHandle identifies one ownership of a lock key.
type LockHandle struct {
	Key       string
	Token     string
	ExpiresAt time.Time
}

// LockManager provides lease-based mutual exclusion across processes.
type LockManager interface {
	// Acquire blocks up to waitTimeout. Ownership expires after leaseTime
	// even if never released.
	Acquire(ctx context.Context, key string, waitTimeout, leaseTime time.Duration) (LockHandle, error)
	// Release is best effort: expired or already released handles are a no-op.
	Release(ctx context.Context, handle LockHandle) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Metrics records domain events.
type Metrics interface {
	AccountOpened()
	DepositCompleted(amount int64)
	RemitCompleted(result domain.TransactionResult, amount int64)
	LockWait(d time.Duration, acquired bool)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Forget releases a claimed key so the request may be retried.
	Forget(ctx context.Context, key string) error
}
