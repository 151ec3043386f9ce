package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goodspace/backend/internal/domain"
)

// writeJSONError writes a JSON-encoded error response with the correct Content-Type.
func writeJSONError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

func errorsIsExpired(err error) bool {
	return errors.Is(err, domain.ErrExpiredToken)
}
