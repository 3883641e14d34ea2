package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vkarpenko/regauth/internal/common"
)

// ConfirmHandler serves the email-confirmation endpoint. It needs no
// authentication: the single-use token in the link is the credential.
type ConfirmHandler struct {
	identity identityService
}

func NewConfirmHandler(identity identityService) *ConfirmHandler {
	return &ConfirmHandler{identity: identity}
}

// Confirm handles PUT /confirm/{token}.
func (h *ConfirmHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeErr(w, common.ValidationError("token must have a value"))
		return
	}

	if err := h.identity.VerifyEmail(r.Context(), token); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
