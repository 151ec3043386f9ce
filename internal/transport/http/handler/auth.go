package handler

import (
	"encoding/json"
	"net/http"

	"github.com/goodspace/backend/internal/application/identity"
	"github.com/goodspace/backend/internal/application/verification"
	"github.com/goodspace/backend/internal/domain"
	"github.com/goodspace/backend/internal/pkg/validate"
)

// AuthHandler handles the public authentication endpoints: code issuance,
// code verification, sign-up and sign-in.
type AuthHandler struct {
	verificationSvc verification.Service
	identitySvc     identity.Service
}

func NewAuthHandler(verificationSvc verification.Service, identitySvc identity.Service) *AuthHandler {
	return &AuthHandler{verificationSvc: verificationSvc, identitySvc: identitySvc}
}

// SendCode handles POST /auth/email/code.
func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req domain.CodeSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	if err := h.verificationSvc.SendVerificationCode(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{})
}

// VerifyCode handles POST /auth/email/verify.
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	if err := h.verificationSvc.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{})
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	pair, err := h.identitySvc.SignUp(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	if err := validate.Struct(&req); err != nil {
		// Malformed sign-in input gets the same opaque failure as a wrong
		// password, so the response never hints at account existence.
		writeError(w, http.StatusUnauthorized, "SIGN_IN_FAILED")
		return
	}
	pair, err := h.identitySvc.SignIn(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
