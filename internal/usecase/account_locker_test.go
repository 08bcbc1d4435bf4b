package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
	"github.com/iho/goremit/internal/usecase/mocks"
)

func TestNewAccountLocker_Defaults(t *testing.T) {
	locker := usecase.NewAccountLocker(mocks.NewInMemoryLockManager(), usecase.LockPolicy{}, nil, zerolog.Nop())
	assert.Equal(t, "ACCOUNTLOCK:100000000000", locker.AccountKey("100000000000"))
}

func TestAccountLocker_LockAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicates collapse to one key", func(t *testing.T) {
		locks := mocks.NewInMemoryLockManager()
		locker := usecase.NewAccountLocker(locks, usecase.DefaultLockPolicy(), nil, zerolog.Nop())

		unlock, err := locker.LockAccounts(ctx, "100000000005", "100000000005")
		require.NoError(t, err)
		assert.Equal(t, []string{"ACCOUNTLOCK:100000000005"}, locks.Held())

		unlock()
		assert.Empty(t, locks.Held())
	})

	t.Run("held lock times out", func(t *testing.T) {
		locks := mocks.NewInMemoryLockManager()
		policy := usecase.LockPolicy{WaitTimeout: 20 * time.Millisecond, LeaseTime: time.Second, KeyPrefix: "TEST:"}
		locker := usecase.NewAccountLocker(locks, policy, nil, zerolog.Nop())

		unlock, err := locker.LockAccounts(ctx, "100000000001")
		require.NoError(t, err)
		defer unlock()

		start := time.Now()
		_, err = locker.LockAccounts(ctx, "100000000001")
		assert.ErrorIs(t, err, domain.ErrLockAcquisitionFailed)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("expired lease can be taken over", func(t *testing.T) {
		locks := mocks.NewInMemoryLockManager()
		now := time.Now()
		locks.Now = func() time.Time { return now }
		locker := usecase.NewAccountLocker(locks, usecase.LockPolicy{WaitTimeout: 10 * time.Millisecond, LeaseTime: time.Second}, nil, zerolog.Nop())

		_, err := locker.LockAccounts(ctx, "100000000001")
		require.NoError(t, err)

		now = now.Add(2 * time.Second)
		unlock, err := locker.LockAccounts(ctx, "100000000001")
		require.NoError(t, err)
		unlock()
	})

	t.Run("release errors are swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lockMgr := mocks.NewMockLockManager(ctrl)
		handle := usecase.LockHandle{Key: "ACCOUNTLOCK:100000000001", Token: "tok"}
		lockMgr.EXPECT().Acquire(gomock.Any(), handle.Key, gomock.Any(), gomock.Any()).Return(handle, nil)
		lockMgr.EXPECT().Release(gomock.Any(), handle).Return(errors.New("gone"))

		locker := usecase.NewAccountLocker(lockMgr, usecase.DefaultLockPolicy(), nil, zerolog.Nop())
		unlock, err := locker.LockAccounts(ctx, "100000000001")
		require.NoError(t, err)
		unlock()
	})

	t.Run("release survives caller cancellation", func(t *testing.T) {
		locks := mocks.NewInMemoryLockManager()
		locker := usecase.NewAccountLocker(locks, usecase.DefaultLockPolicy(), nil, zerolog.Nop())

		cctx, cancel := context.WithCancel(ctx)
		unlock, err := locker.LockAccounts(cctx, "100000000001", "100000000002")
		require.NoError(t, err)

		cancel()
		unlock()
		assert.Empty(t, locks.Held())
	})

	t.Run("lock wait is observed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		metrics := mocks.NewMockMetrics(ctrl)
		metrics.EXPECT().LockWait(gomock.Any(), true).Times(2)

		locker := usecase.NewAccountLocker(mocks.NewInMemoryLockManager(), usecase.DefaultLockPolicy(), metrics, zerolog.Nop())
		unlock, err := locker.LockAccounts(ctx, "100000000001", "100000000002")
		require.NoError(t, err)
		unlock()
	})
}
