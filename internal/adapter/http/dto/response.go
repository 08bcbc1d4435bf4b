package dto

import (
	"time"

	"github.com/iho/goremit/internal/domain"
)

// OpenAccountResponse is returned when an account is opened.
type OpenAccountResponse struct {
	AccountNumber string               `json:"accountNumber"`
	AccountStatus domain.AccountStatus `json:"accountStatus"`
}

// OpenAccountFromDomain converts domain account to response.
func OpenAccountFromDomain(a *domain.Account) *OpenAccountResponse {
	return &OpenAccountResponse{
		AccountNumber: a.Number,
		AccountStatus: a.Status,
	}
}

// DepositResponse is returned after points were added. CreatedAt is the
// moment the deposit was applied.
type DepositResponse struct {
	Balance       int64     `json:"balance"`
	AccountNumber string    `json:"accountNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DepositFromDomain converts domain account to response.
func DepositFromDomain(a *domain.Account) *DepositResponse {
	return &DepositResponse{
		Balance:       a.Balance,
		AccountNumber: a.Number,
		CreatedAt:     a.UpdatedAt,
	}
}

// RemitResponse is returned after a successful remittance.
type RemitResponse struct {
	Amount                  int64     `json:"amount"`
	RecipientsAccountNumber string    `json:"recipientsAccountNumber"`
	RemitterAccountNumber   string    `json:"remitterAccountNumber"`
	CreatedAt               time.Time `json:"createdAt"`
}

// RemitFromDomain converts domain transaction to response.
func RemitFromDomain(t *domain.Transaction) *RemitResponse {
	return &RemitResponse{
		Amount:                  t.Amount,
		RecipientsAccountNumber: t.RecipientAccountNumber,
		RemitterAccountNumber:   t.RemitterAccountNumber,
		CreatedAt:               t.CreatedAt,
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	Balance       int64     `json:"balance"`
	AccountNumber string    `json:"accountNumber"`
	OwnerEmail    string    `json:"ownerEmail"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		Balance:       a.Balance,
		AccountNumber: a.Number,
		OwnerEmail:    a.OwnerID,
		CreatedAt:     a.CreatedAt,
	}
}

// TransactionResponse represents a ledger record in API responses.
type TransactionResponse struct {
	ID                     int64                    `json:"id"`
	TransactionType        domain.TransactionType   `json:"transactionType"`
	TransactionResultType  domain.TransactionResult `json:"transactionResultType"`
	Amount                 int64                    `json:"amount"`
	RecipientAccountNumber string                   `json:"recipientAccountNumber"`
	RemitterAccountNumber  string                   `json:"remitterAccountNumber"`
	CreatedAt              time.Time                `json:"createdAt"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                     t.ID,
		TransactionType:        t.Type,
		TransactionResultType:  t.Result,
		Amount:                 t.Amount,
		RecipientAccountNumber: t.RecipientAccountNumber,
		RemitterAccountNumber:  t.RemitterAccountNumber,
		CreatedAt:              t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	ErrorCode string            `json:"errorCode"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
}
