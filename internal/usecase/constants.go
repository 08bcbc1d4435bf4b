package usecase

import "time"

const (
	// DefaultLockWaitTimeout is how long a caller waits for an account lock.
	DefaultLockWaitTimeout = 1 * time.Second

	// DefaultLockLeaseTime bounds how long a crashed holder can keep a lock.
	DefaultLockLeaseTime = 5 * time.Second

	// DefaultLockKeyPrefix namespaces account lock keys.
	DefaultLockKeyPrefix = "ACCOUNTLOCK:"

	// allocatorLockName serializes account number allocation.
	allocatorLockName = "ALLOCATOR"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
