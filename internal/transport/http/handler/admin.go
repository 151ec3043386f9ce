package handler

import (
	"net/http"

	"github.com/goodspace/backend/internal/application/verification"
)

// AdminHandler exposes operator endpoints.
type AdminHandler struct {
	verificationSvc verification.Service
}

func NewAdminHandler(verificationSvc verification.Service) *AdminHandler {
	return &AdminHandler{verificationSvc: verificationSvc}
}

// PurgeExpiredVerifications handles DELETE /admin/verifications/expired — a
// manual purge handle alongside the periodic sweeper.
func (h *AdminHandler) PurgeExpiredVerifications(w http.ResponseWriter, r *http.Request) {
	n, err := h.verificationSvc.PurgeExpired(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PurgeEnvelope{Purged: n})
}
