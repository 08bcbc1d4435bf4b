package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goremit/internal/domain"
)

// LockPolicy controls how account locks are named, awaited and leased.
type LockPolicy struct {
	WaitTimeout time.Duration
	LeaseTime   time.Duration
	KeyPrefix   string
}

// DefaultLockPolicy returns the 1s wait / 5s lease policy.
func DefaultLockPolicy() LockPolicy {
	return LockPolicy{
		WaitTimeout: DefaultLockWaitTimeout,
		LeaseTime:   DefaultLockLeaseTime,
		KeyPrefix:   DefaultLockKeyPrefix,
	}
}

// AccountLocker acquires account locks through a LockManager.
//
// Keys are always taken in ascending account-number order so two transfers
// over the same pair of accounts in opposite directions cannot deadlock.
type AccountLocker struct {
	manager LockManager
	policy  LockPolicy
	metrics Metrics
	logger  zerolog.Logger
}

// NewAccountLocker creates a new AccountLocker.
func NewAccountLocker(manager LockManager, policy LockPolicy, metrics Metrics, logger zerolog.Logger) *AccountLocker {
	if policy.WaitTimeout <= 0 {
		policy.WaitTimeout = DefaultLockWaitTimeout
	}
	if policy.LeaseTime <= 0 {
		policy.LeaseTime = DefaultLockLeaseTime
	}
	if policy.KeyPrefix == "" {
		policy.KeyPrefix = DefaultLockKeyPrefix
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &AccountLocker{
		manager: manager,
		policy:  policy,
		metrics: metrics,
		logger:  logger,
	}
}

// AccountKey returns the lock key guarding an account number.
func (l *AccountLocker) AccountKey(number string) string {
	return l.policy.KeyPrefix + number
}

// LockAccounts locks every given account number. The returned unlock
// function releases all of them and must always be called.
func (l *AccountLocker) LockAccounts(ctx context.Context, numbers ...string) (func(), error) {
	keys := make([]string, 0, len(numbers))
	for _, n := range canonicalOrder(numbers) {
		keys = append(keys, l.AccountKey(n))
	}

	return l.lockKeys(ctx, keys)
}

// LockAllocator locks account number allocation.
func (l *AccountLocker) LockAllocator(ctx context.Context) (func(), error) {
	return l.lockKeys(ctx, []string{l.policy.KeyPrefix + allocatorLockName})
}

func (l *AccountLocker) lockKeys(ctx context.Context, keys []string) (func(), error) {
	handles := make([]LockHandle, 0, len(keys))

	for _, key := range keys {
		start := time.Now()
		handle, err := l.manager.Acquire(ctx, key, l.policy.WaitTimeout, l.policy.LeaseTime)
		l.metrics.LockWait(time.Since(start), err == nil)

		if err != nil {
			l.release(ctx, handles)

			if !errors.Is(err, domain.ErrLockAcquisitionFailed) {
				err = fmt.Errorf("%w: %w", domain.ErrLockAcquisitionFailed, err)
			}

			l.logger.Warn().Err(err).Str("key", key).Msg("account lock not acquired")
			return nil, err
		}

		handles = append(handles, handle)
	}

	return func() { l.release(ctx, handles) }, nil
}

// release unlocks in reverse acquisition order, ignoring caller cancellation.
func (l *AccountLocker) release(ctx context.Context, handles []LockHandle) {
	ctx = context.WithoutCancel(ctx)

	for i := len(handles) - 1; i >= 0; i-- {
		if err := l.manager.Release(ctx, handles[i]); err != nil {
			l.logger.Error().Err(err).Str("key", handles[i].Key).Msg("failed to release account lock")
		}
	}
}

// canonicalOrder returns the distinct numbers sorted ascending.
func canonicalOrder(numbers []string) []string {
	seen := make(map[string]bool, len(numbers))

	out := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	sort.Strings(out)
	return out
}
