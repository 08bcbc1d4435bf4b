package domain

// Error is a domain failure carrying a stable code for API consumers.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	// Not found
	ErrAccountNotFound = &Error{Code: "ACCOUNT_NOT_FOUND", Message: "account does not exist"}

	// Authorization
	ErrNotOwner     = &Error{Code: "REQUESTER_IS_NOT_OWNER", Message: "requester is not the account owner"}
	ErrUnauthorized = &Error{Code: "UN_AUTHORIZED", Message: "authentication required"}

	// Business rules
	ErrNotFriends              = &Error{Code: "NOT_FRIENDS", Message: "remittance is only allowed between friends"}
	ErrInsufficientFunds       = &Error{Code: "LACK_OF_BALANCE", Message: "insufficient balance"}
	ErrAccountSizeExceed       = &Error{Code: "ACCOUNT_SIZE_EXCEED", Message: "maximum number of accounts exceeded"}
	ErrIllegalAccountNumber    = &Error{Code: "ILLEGAL_ACCOUNT_NUMBER", Message: "account number must be 12 digits"}
	ErrIllegalTransactionState = &Error{Code: "ILLEGAL_TRANSACTION_STATE", Message: "illegal transaction state"}

	// Infrastructure
	ErrLockAcquisitionFailed = &Error{Code: "ACCOUNT_LOCK_FAIL", Message: "failed to acquire account lock"}

	// Boundary validation
	ErrBadRequest = &Error{Code: "BAD_REQUEST", Message: "invalid request"}
)
