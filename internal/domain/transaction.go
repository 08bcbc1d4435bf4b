package domain

import "time"

// TransactionType is the kind of ledger event.
type TransactionType string

const (
	TransactionTypeRemit  TransactionType = "REMIT"
	TransactionTypeCancel TransactionType = "CANCEL"
)

// TransactionResult is the outcome of a transfer attempt.
type TransactionResult string

const (
	TransactionResultSuccess TransactionResult = "SUCCESS"
	TransactionResultFail    TransactionResult = "FAIL"
)

// Transaction is a ledger record of a single transfer attempt.
//
// A transaction starts as an unattached request carrying the amount and the
// two account numbers. It is finalized exactly once by Succeed or Fail and is
// never changed afterwards.
type Transaction struct {
	ID                       int64
	Type                     TransactionType
	Result                   TransactionResult
	Amount                   int64
	RemitterAccountNumber    string
	RecipientAccountNumber   string
	RemitterBalanceSnapshot  int64
	RecipientBalanceSnapshot int64
	CreatedAt                time.Time
}

// NewRemitRequest creates an unfinalized REMIT transaction.
func NewRemitRequest(amount int64, remitterNumber, recipientNumber string) *Transaction {
	return &Transaction{
		Type:                   TransactionTypeRemit,
		Amount:                 amount,
		RemitterAccountNumber:  remitterNumber,
		RecipientAccountNumber: recipientNumber,
	}
}

// Finalized reports whether the outcome has already been set.
func (t *Transaction) Finalized() bool {
	return t.Result != ""
}

// Succeed snapshots both balances, moves Amount from remitter to recipient
// and marks the transaction SUCCESS. The snapshots hold pre-mutation
// balances. When the debit is refused the accounts are left untouched and
// the transaction stays unfinalized.
func (t *Transaction) Succeed(remitter, recipient *Account, now time.Time) error {
	if err := t.attach(remitter, recipient); err != nil {
		return err
	}

	if t.Type == TransactionTypeCancel && t.Amount > remitter.Balance {
		return ErrInsufficientFunds
	}

	t.snapshot(remitter, recipient)

	if err := remitter.Debit(t.Amount); err != nil {
		return err
	}
	recipient.Credit(t.Amount)

	t.Result = TransactionResultSuccess
	t.CreatedAt = now
	return nil
}

// Fail marks the transaction FAIL with balances as of the failure moment.
func (t *Transaction) Fail(remitter, recipient *Account, now time.Time) error {
	if err := t.attach(remitter, recipient); err != nil {
		return err
	}

	t.snapshot(remitter, recipient)
	t.Result = TransactionResultFail
	t.CreatedAt = now
	return nil
}

// Involves reports whether the account takes part in the transaction.
func (t *Transaction) Involves(accountNumber string) bool {
	return t.RemitterAccountNumber == accountNumber || t.RecipientAccountNumber == accountNumber
}

func (t *Transaction) attach(remitter, recipient *Account) error {
	if t.Finalized() {
		return ErrIllegalTransactionState
	}

	if remitter == nil || recipient == nil {
		return ErrIllegalTransactionState
	}

	t.RemitterAccountNumber = remitter.Number
	t.RecipientAccountNumber = recipient.Number
	return nil
}

func (t *Transaction) snapshot(remitter, recipient *Account) {
	t.RemitterBalanceSnapshot = remitter.Balance
	t.RecipientBalanceSnapshot = recipient.Balance
}
