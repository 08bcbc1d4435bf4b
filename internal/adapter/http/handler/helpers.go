package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/goremit/internal/adapter/http/dto"
	"github.com/iho/goremit/internal/adapter/http/middleware"
	"github.com/iho/goremit/internal/domain"
)

const codeInternal = "INTERNAL_ERROR"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	writeJSON(w, status, dto.ErrorResponse{
		ErrorCode: code,
		Message:   message,
		Fields:    fields,
	})
}

// writeDomainError maps err onto the API error catalogue. Errors outside the
// catalogue are logged and reported without detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, domain.ErrBadRequest.Code, domain.ErrBadRequest.Message, validation.Fields)
		return
	}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		status := mapDomainError(domainErr)
		if status >= http.StatusInternalServerError {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		}
		writeError(w, status, domainErr.Code, domainErr.Message, nil)
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, codeInternal, "internal server error", nil)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFriends),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAccountSizeExceed),
		errors.Is(err, domain.ErrIllegalAccountNumber),
		errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLockAcquisitionFailed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, reporting malformed payloads
// as BAD_REQUEST.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid request body", nil)
		return false
	}
	return true
}

// callerID returns the authenticated caller, writing UN_AUTHORIZED when the
// request carries none.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.Email == "" {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Code, domain.ErrUnauthorized.Message, nil)
		return "", false
	}
	return identity.Email, true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
