package usecase

import (
	"context"
	"time"

	"github.com/iho/goremit/internal/domain"
)

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) AccountOpened() {}
func (NopMetrics) DepositCompleted(int64) {}
func (NopMetrics) RemitCompleted(domain.TransactionResult, int64) {}
func (NopMetrics) LockWait(time.Duration, bool) {}

// runOnce is used when no Retrier is configured.
type runOnce struct{}

func (runOnce) Retry(_ context.Context, operation func() error) error {
	return operation()
}
