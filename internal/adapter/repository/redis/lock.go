package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// releaseScript deletes the key only while it still carries our token, so an
// expired holder can never release a lock someone else has since taken.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var errLockHeld = errors.New("lock held by another owner")

const (
	defaultPollInterval    = 5 * time.Millisecond
	defaultMaxPollInterval = 50 * time.Millisecond
)

// LockManager implements usecase.LockManager with Redis SET NX PX leases.
type LockManager struct {
	client          redis.UniversalClient
	pollInterval    time.Duration
	maxPollInterval time.Duration
	now             func() time.Time
}

// NewLockManager creates a new LockManager.
func NewLockManager(client redis.UniversalClient) *LockManager {
	return &LockManager{
		client:          client,
		pollInterval:    defaultPollInterval,
		maxPollInterval: defaultMaxPollInterval,
		now:             time.Now,
	}
}

// Acquire polls for key until it is free or waitTimeout elapses. The lease
// expires after leaseTime even if Release is never called.
func (m *LockManager) Acquire(ctx context.Context, key string, waitTimeout, leaseTime time.Duration) (usecase.LockHandle, error) {
	token := ulid.Make().String()

	var handle usecase.LockHandle
	attempt := func() error {
		ok, err := m.client.SetNX(ctx, key, token, leaseTime).Result()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errLockHeld
		}

		handle = usecase.LockHandle{
			Key:       key,
			Token:     token,
			ExpiresAt: m.now().Add(leaseTime),
		}
		return nil
	}

	err := backoff.Retry(attempt, backoff.WithContext(m.policy(waitTimeout), ctx))
	if err == nil {
		return handle, nil
	}

	if errors.Is(err, errLockHeld) {
		return usecase.LockHandle{}, domain.ErrLockAcquisitionFailed
	}
	return usecase.LockHandle{}, fmt.Errorf("%w: %w", domain.ErrLockAcquisitionFailed, err)
}

func (m *LockManager) policy(waitTimeout time.Duration) backoff.BackOff {
	if waitTimeout <= 0 {
		return &backoff.StopBackOff{}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.pollInterval
	b.MaxInterval = m.maxPollInterval
	b.MaxElapsedTime = waitTimeout
	b.RandomizationFactor = 0.2
	return b
}

// Release deletes the lease if it is still ours. Expired or already
// released handles are a no-op.
func (m *LockManager) Release(ctx context.Context, handle usecase.LockHandle) error {
	if handle.Key == "" || handle.Token == "" {
		return nil
	}

	if err := releaseScript.Run(ctx, m.client, []string{handle.Key}, handle.Token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release %s: %w", handle.Key, err)
	}

	return nil
}
