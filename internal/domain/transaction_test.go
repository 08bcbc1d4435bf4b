package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPair(remitterBalance, recipientBalance int64) (*Account, *Account) {
	remitter := &Account{Number: "100000000000", OwnerID: "remitter@example.com", Balance: remitterBalance}
	recipient := &Account{Number: "100000000001", OwnerID: "recipient@example.com", Balance: recipientBalance}
	return remitter, recipient
}

func TestTransaction_Succeed(t *testing.T) {
	remitter, recipient := newPair(10000, 100)
	tx := NewRemitRequest(500, remitter.Number, recipient.Number)

	err := tx.Succeed(remitter, recipient, time.Now())
	require.NoError(t, err)

	assert.Equal(t, TransactionResultSuccess, tx.Result)
	assert.Equal(t, TransactionTypeRemit, tx.Type)
	assert.Equal(t, int64(10000), tx.RemitterBalanceSnapshot)
	assert.Equal(t, int64(100), tx.RecipientBalanceSnapshot)
	assert.Equal(t, int64(9500), remitter.Balance)
	assert.Equal(t, int64(600), recipient.Balance)
	assert.LessOrEqual(t, tx.Amount, tx.RemitterBalanceSnapshot)
}

func TestTransaction_SucceedInsufficientFunds(t *testing.T) {
	remitter, recipient := newPair(10000, 100)
	tx := NewRemitRequest(500000, remitter.Number, recipient.Number)

	err := tx.Succeed(remitter, recipient, time.Now())
	require.ErrorIs(t, err, ErrInsufficientFunds)

	assert.False(t, tx.Finalized())
	assert.Equal(t, int64(10000), remitter.Balance)
	assert.Equal(t, int64(100), recipient.Balance)
	assert.Equal(t, int64(10000), tx.RemitterBalanceSnapshot)
}

func TestTransaction_Fail(t *testing.T) {
	remitter, recipient := newPair(10000, 100)
	tx := NewRemitRequest(500, remitter.Number, recipient.Number)

	require.NoError(t, tx.Fail(remitter, recipient, time.Now()))

	assert.Equal(t, TransactionResultFail, tx.Result)
	assert.Equal(t, int64(10000), tx.RemitterBalanceSnapshot)
	assert.Equal(t, int64(100), tx.RecipientBalanceSnapshot)
	assert.Equal(t, int64(10000), remitter.Balance)
	assert.Equal(t, int64(100), recipient.Balance)
}

func TestTransaction_FinalizedOnlyOnce(t *testing.T) {
	remitter, recipient := newPair(10000, 100)
	tx := NewRemitRequest(500, remitter.Number, recipient.Number)
	require.NoError(t, tx.Succeed(remitter, recipient, time.Now()))

	assert.ErrorIs(t, tx.Fail(remitter, recipient, time.Now()), ErrIllegalTransactionState)
	assert.ErrorIs(t, tx.Succeed(remitter, recipient, time.Now()), ErrIllegalTransactionState)
	assert.Equal(t, int64(9500), remitter.Balance)
	assert.Equal(t, TransactionResultSuccess, tx.Result)
}

func TestTransaction_MissingAccount(t *testing.T) {
	remitter, _ := newPair(10000, 100)
	tx := NewRemitRequest(500, remitter.Number, "100000000001")

	assert.ErrorIs(t, tx.Succeed(remitter, nil, time.Now()), ErrIllegalTransactionState)
	assert.ErrorIs(t, tx.Fail(nil, remitter, time.Now()), ErrIllegalTransactionState)
	assert.Equal(t, int64(10000), remitter.Balance)
}

func TestTransaction_CancelRequiresBalance(t *testing.T) {
	remitter, recipient := newPair(100, 0)
	tx := NewRemitRequest(200, remitter.Number, recipient.Number)
	tx.Type = TransactionTypeCancel

	assert.ErrorIs(t, tx.Succeed(remitter, recipient, time.Now()), ErrInsufficientFunds)
	assert.Equal(t, int64(100), remitter.Balance)
}

func TestTransaction_Involves(t *testing.T) {
	tx := NewRemitRequest(1, "100000000000", "100000000001")

	assert.True(t, tx.Involves("100000000000"))
	assert.True(t, tx.Involves("100000000001"))
	assert.False(t, tx.Involves("100000000002"))
}
