package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Validation constants
const (
	MinDepositAmount = 10_000
	MaxDepositAmount = 2_000_000
	MinRemitAmount   = 1
	MaxRemitAmount   = 2_000_000

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ErrInvalidEmail is returned for malformed e-mail identities.
var ErrInvalidEmail = errors.New("invalid email format")

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// FieldErrors maps request field names to human readable problems.
type FieldErrors map[string]string

// Add records a problem for field, keeping the first one reported.
func (f FieldErrors) Add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// Err returns nil when no field failed.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidationError is returned when request fields fail boundary checks.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match validation failures with ErrBadRequest.
func (e *ValidationError) Unwrap() error {
	return ErrBadRequest
}

// CheckAccountNumber records a field error when number is malformed.
func CheckAccountNumber(f FieldErrors, field, number string) {
	if ValidateAccountNumber(number) != nil {
		f.Add(field, fmt.Sprintf("must be %d digits", AccountNumberLength))
	}
}

// CheckAmountRange records a field error when amount is outside [min, max].
func CheckAmountRange(f FieldErrors, field string, amount, min, max int64) {
	if amount < min {
		f.Add(field, fmt.Sprintf("must be at least %d", min))
		return
	}
	if amount > max {
		f.Add(field, fmt.Sprintf("must be at most %d", max))
	}
}

// ValidateEmail validates an e-mail shaped identity.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// NormalizePage clamps zero-based page and size parameters. The page is
// capped so that page*size always fits a 32-bit OFFSET.
func NormalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}

	if size <= 0 {
		size = DefaultPageSize
	}

	if size > MaxPageSize {
		size = MaxPageSize
	}

	if maxPage := math.MaxInt32 / size; page > maxPage {
		page = maxPage
	}

	return page, size
}
