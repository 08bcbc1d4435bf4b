package postgres

import (
	"context"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/postgres/generated"
	"github.com/iho/goremit/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create appends a transaction outside any unit of work.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	return insertTransaction(ctx, r.queries, txn)
}

// CreateTx appends a transaction as part of tx.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return insertTransaction(ctx, queries, txn)
}

func insertTransaction(ctx context.Context, queries *generated.Queries, txn *domain.Transaction) error {
	if !txn.Finalized() {
		return domain.ErrIllegalTransactionState
	}

	id, err := queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		TransactionType:          string(txn.Type),
		TransactionResultType:    string(txn.Result),
		Amount:                   txn.Amount,
		RemitterAccountNumber:    txn.RemitterAccountNumber,
		RecipientAccountNumber:   txn.RecipientAccountNumber,
		RemitterBalanceSnapshot:  txn.RemitterBalanceSnapshot,
		RecipientBalanceSnapshot: txn.RecipientBalanceSnapshot,
		CreatedAt:                timeToPgTimestamptz(txn.CreatedAt),
	})
	if err != nil {
		return err
	}

	txn.ID = id
	return nil
}

// ListSuccessfulByAccount lists SUCCESS transactions involving the account,
// newest first.
func (r *TransactionRepository) ListSuccessfulByAccount(ctx context.Context, accountNumber string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListSuccessfulTransactionsByAccount(ctx, generated.ListSuccessfulTransactionsByAccountParams{
		AccountNumber: accountNumber,
		Limit:         int32(limit),
		Offset:        int32(offset),
	})
	if err != nil {
		return nil, err
	}

	txns := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToTransaction(row))
	}

	return txns, nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:                       row.ID,
		Type:                     domain.TransactionType(row.TransactionType),
		Result:                   domain.TransactionResult(row.TransactionResultType),
		Amount:                   row.Amount,
		RemitterAccountNumber:    row.RemitterAccountNumber,
		RecipientAccountNumber:   row.RecipientAccountNumber,
		RemitterBalanceSnapshot:  row.RemitterBalanceSnapshot,
		RecipientBalanceSnapshot: row.RecipientBalanceSnapshot,
		CreatedAt:                row.CreatedAt.Time,
	}
}
