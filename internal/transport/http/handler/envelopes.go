package handler

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/goodspace/backend/internal/domain"
	"github.com/oklog/ulid/v2"
)

// MessageEnvelope is the generic response wrapper. Error values are
// locale-neutral codes; human-readable text is a presentation concern.
type MessageEnvelope struct {
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// PurgeEnvelope wraps the admin purge response.
type PurgeEnvelope struct {
	Purged int64 `json:"purged"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, MessageEnvelope{Error: code})
}

// httpError is the single boundary adapter from domain sentinels to HTTP
// statuses. Anything outside the closed error set is an infrastructure
// failure: it is logged with a correlation id and surfaced without detail.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrIllegalPassword):
		writeError(w, http.StatusBadRequest, "ILLEGAL_PASSWORD")
	case errors.Is(err, domain.ErrIllegalCode):
		writeError(w, http.StatusBadRequest, "ILLEGAL_CODE")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
	case errors.Is(err, domain.ErrSignInFailed):
		writeError(w, http.StatusUnauthorized, "SIGN_IN_FAILED")
	case errors.Is(err, domain.ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, "WRONG_PASSWORD")
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN")
	case errors.Is(err, domain.ErrExpiredToken):
		writeError(w, http.StatusUnauthorized, "EXPIRED_TOKEN")
	case errors.Is(err, domain.ErrNotVerified):
		writeError(w, http.StatusForbidden, "NOT_VERIFIED")
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND")
	case errors.Is(err, domain.ErrEmailNotFound):
		writeError(w, http.StatusNotFound, "EMAIL_NOT_FOUND")
	case errors.Is(err, domain.ErrVerificationExpired):
		writeError(w, http.StatusGone, "EXPIRED")
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "DUPLICATE_EMAIL")
	default:
		correlationID := ulid.MustNew(ulid.Now(), rand.Reader).String()
		slog.Error("internal error", "correlation_id", correlationID, "err", err)
		writeJSON(w, http.StatusInternalServerError, MessageEnvelope{
			Error:         "INTERNAL",
			CorrelationID: correlationID,
		})
	}
}
