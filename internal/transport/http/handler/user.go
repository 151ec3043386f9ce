package handler

import (
	"encoding/json"
	"net/http"

	"github.com/goodspace/backend/internal/application/identity"
	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/pkg/validate"
	"github.com/goodspace/backend/internal/transport/http/middleware"
)

// UserHandler handles authenticated credential-mutation endpoints.
type UserHandler struct {
	identitySvc identity.Service
}

func NewUserHandler(identitySvc identity.Service) *UserHandler {
	return &UserHandler{identitySvc: identitySvc}
}

// RefreshTokenEnvelope wraps rotation responses: these operations return the
// new refresh token only.
type RefreshTokenEnvelope struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdatePassword handles PATCH /user/password.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN")
		return
	}
	var req domain.PasswordUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	refresh, err := h.identitySvc.UpdatePassword(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshTokenEnvelope{RefreshToken: refresh})
}

// UpdateEmail handles PATCH /user/email.
func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN")
		return
	}
	var req domain.EmailUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	refresh, err := h.identitySvc.UpdateEmail(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshTokenEnvelope{RefreshToken: refresh})
}
