package dto

import (
	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// DepositRequest represents a request to add points to an account.
type DepositRequest struct {
	Amount        int64  `json:"amount"`
	AccountNumber string `json:"accountNumber"`
}

// Validate checks the request fields at the boundary.
func (r *DepositRequest) Validate() domain.FieldErrors {
	fields := domain.FieldErrors{}
	domain.CheckAmountRange(fields, "amount", r.Amount, domain.MinDepositAmount, domain.MaxDepositAmount)
	domain.CheckAccountNumber(fields, "accountNumber", r.AccountNumber)
	return fields
}

// ToUseCaseInput converts request to usecase input.
func (r *DepositRequest) ToUseCaseInput(callerID string) usecase.DepositInput {
	return usecase.DepositInput{
		AccountNumber: r.AccountNumber,
		Amount:        r.Amount,
		RequesterID:   callerID,
	}
}

// RemitRequest represents a request to send points to a friend's account.
type RemitRequest struct {
	Amount                  int64  `json:"amount"`
	RecipientsAccountNumber string `json:"recipientsAccountNumber"`
	RemitterAccountNumber   string `json:"remitterAccountNumber"`
}

// Validate checks the request fields at the boundary.
func (r *RemitRequest) Validate() domain.FieldErrors {
	fields := domain.FieldErrors{}
	domain.CheckAmountRange(fields, "amount", r.Amount, domain.MinRemitAmount, domain.MaxRemitAmount)
	domain.CheckAccountNumber(fields, "recipientsAccountNumber", r.RecipientsAccountNumber)
	domain.CheckAccountNumber(fields, "remitterAccountNumber", r.RemitterAccountNumber)

	if r.RemitterAccountNumber != "" && r.RemitterAccountNumber == r.RecipientsAccountNumber {
		fields.Add("recipientsAccountNumber", "must differ from remitterAccountNumber")
	}

	return fields
}

// ToUseCaseInput converts request to usecase input.
func (r *RemitRequest) ToUseCaseInput() usecase.RemitInput {
	return usecase.RemitInput{
		Amount:                 r.Amount,
		RemitterAccountNumber:  r.RemitterAccountNumber,
		RecipientAccountNumber: r.RecipientsAccountNumber,
	}
}
