package handler

import (
	"context"
	"net/http"

	"github.com/iho/goremit/internal/adapter/http/dto"
	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// RemitService defines the behavior needed by RemitHandler.
type RemitService interface {
	Remit(ctx context.Context, input usecase.RemitInput, callerID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

// RemitHandler handles remittance HTTP requests.
type RemitHandler struct {
	remitUC RemitService
}

// NewRemitHandler creates a new RemitHandler.
func NewRemitHandler(remitUC RemitService) *RemitHandler {
	return &RemitHandler{remitUC: remitUC}
}

// Remit sends points from one of the caller's accounts to a friend's account.
// A failed attempt is still ledgered by the usecase; the caller only sees the
// error.
func (h *RemitHandler) Remit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.RemitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate().Err(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	txn, err := h.remitUC.Remit(r.Context(), req.ToUseCaseInput(), caller)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RemitFromDomain(txn))
}

// Transactions lists successful transactions of one of the caller's accounts.
func (h *RemitHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	number, ok := accountNumberParam(w, r)
	if !ok {
		return
	}

	txns, err := h.remitUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		AccountNumber: number,
		RequesterID:   caller,
		Page:          parseIntQuery(r, "page", 0),
		Size:          parseIntQuery(r, "size", domain.DefaultPageSize),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}
