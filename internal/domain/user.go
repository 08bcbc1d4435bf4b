package domain

import "errors"

// Identity is the caller resolved from a bearer token.
// The e-mail address doubles as the owner ID of accounts.
type Identity struct {
	ID    string
	Email string
}

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
