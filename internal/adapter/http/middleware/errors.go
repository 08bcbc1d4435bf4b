package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iho/goremit/internal/adapter/http/dto"
)

const codeInternal = "INTERNAL_ERROR"

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		ErrorCode: code,
		Message:   message,
	})
}
