package domain

import (
	"strconv"
	"time"
)

const (
	// DefaultAccountNumber is allocated when no account has ever been created.
	DefaultAccountNumber = "100000000000"

	// AccountNumberLength is the fixed number of digits in an account number.
	AccountNumberLength = 12

	// MaxAccountsPerOwner limits how many accounts a single owner may open.
	MaxAccountsPerOwner = 10
)

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	AccountStatusInUse        AccountStatus = "IN_USE"
	AccountStatusUnregistered AccountStatus = "UNREGISTERED"
)

// Account is a numbered balance holder owned by a single user.
type Account struct {
	Number    string
	OwnerID   string
	Balance   int64
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount builds a fresh IN_USE account numbered after lastNumber.
// An empty lastNumber yields DefaultAccountNumber.
func NewAccount(ownerID, lastNumber string, now time.Time) (*Account, error) {
	number, err := NextAccountNumber(lastNumber)
	if err != nil {
		return nil, err
	}

	return &Account{
		Number:    number,
		OwnerID:   ownerID,
		Balance:   0,
		Status:    AccountStatusInUse,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NextAccountNumber returns the number following last.
func NextAccountNumber(last string) (string, error) {
	if last == "" {
		return DefaultAccountNumber, nil
	}

	if err := ValidateAccountNumber(last); err != nil {
		return "", err
	}

	n, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return "", ErrIllegalAccountNumber
	}

	next := strconv.FormatInt(n+1, 10)
	if err := ValidateAccountNumber(next); err != nil {
		return "", err
	}

	return next, nil
}

// ValidateAccountNumber checks that number is exactly 12 ASCII digits.
func ValidateAccountNumber(number string) error {
	if len(number) != AccountNumberLength {
		return ErrIllegalAccountNumber
	}

	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return ErrIllegalAccountNumber
		}
	}

	return nil
}

// CheckOwner returns ErrNotOwner unless requesterID owns the account.
func (a *Account) CheckOwner(requesterID string) error {
	if requesterID == "" || a.OwnerID != requesterID {
		return ErrNotOwner
	}
	return nil
}

// Credit increases the balance by amount.
func (a *Account) Credit(amount int64) {
	a.Balance += amount
}

// Debit decreases the balance by amount, refusing to go below zero.
func (a *Account) Debit(amount int64) error {
	if amount > a.Balance {
		return ErrInsufficientFunds
	}

	a.Balance -= amount
	return nil
}
