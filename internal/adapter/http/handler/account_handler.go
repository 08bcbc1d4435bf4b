package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goremit/internal/adapter/http/dto"
	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, ownerID string) (*domain.Account, error)
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Account, error)
	GetAccount(ctx context.Context, number, requesterID string) (*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Open opens a new account for the caller.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	account, err := h.accountUC.OpenAccount(r.Context(), caller)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OpenAccountFromDomain(account))
}

// Deposit adds points to one of the caller's accounts.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate().Err(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	account, err := h.accountUC.Deposit(r.Context(), req.ToUseCaseInput(caller))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(account))
}

// Get retrieves one of the caller's accounts by number.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	number, ok := accountNumberParam(w, r)
	if !ok {
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), number, caller)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// accountNumberParam reads and validates the {number} path segment.
func accountNumberParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	number := chi.URLParam(r, "number")
	if err := domain.ValidateAccountNumber(number); err != nil {
		writeDomainError(w, r, err)
		return "", false
	}
	return number, true
}
