package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/postgres/generated"
	"github.com/iho/goremit/internal/usecase"
)

const (
	pgErrUniqueViolation = "23505"
	pgErrCheckViolation  = "23514"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository. db is usually a
// *pgxpool.Pool.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		AccountNumber: account.Number,
		OwnerEmail:    account.OwnerID,
		Balance:       account.Balance,
		AccountStatus: string(account.Status),
		CreatedAt:     timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("account number %s already allocated: %w", account.Number, err)
		}
		return err
	}

	return nil
}

// GetByNumber retrieves an account by number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row)
}

// GetByNumberForUpdate retrieves an account by number with a FOR UPDATE lock.
func (r *AccountRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number string) (*domain.Account, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetAccountByNumberForUpdate(ctx, number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row)
}

// LatestNumber returns the highest allocated account number, or "". Numbers
// are fixed-width digits, so text order is numeric order.
func (r *AccountRepository) LatestNumber(ctx context.Context) (string, error) {
	number, err := r.queries.GetLatestAccountNumber(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}

		return "", err
	}

	return number, nil
}

// CountByOwner counts the accounts owned by ownerID.
func (r *AccountRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	count, err := r.queries.CountAccountsByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// UpdateBalance updates the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, number string, balance int64, updatedAt time.Time) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	rows, err := queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		AccountNumber: number,
		Balance:       balance,
		UpdatedAt:     timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCheckViolation {
			return domain.ErrInsufficientFunds
		}
		return err
	}

	if rows == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// rowToAccount converts a row, rejecting stored numbers of the wrong shape.
func rowToAccount(row generated.Account) (*domain.Account, error) {
	if err := domain.ValidateAccountNumber(row.AccountNumber); err != nil {
		return nil, err
	}

	return &domain.Account{
		Number:    row.AccountNumber,
		OwnerID:   row.OwnerEmail,
		Balance:   row.Balance,
		Status:    domain.AccountStatus(row.AccountStatus),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
