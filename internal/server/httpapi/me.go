package httpapi

import (
	"net/http"
)

// MeHandler serves the current-user endpoint.
type MeHandler struct {
	identity identityService
}

func NewMeHandler(identity identityService) *MeHandler {
	return &MeHandler{identity: identity}
}

// Show handles GET /me: the private view of the authenticated user,
// including the verification state of their contact address.
func (h *MeHandler) Show(w http.ResponseWriter, r *http.Request) {
	info := authFromContext(r.Context())

	state, err := h.identity.EmailStateFor(r.Context(), info.User.ID)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": newUserView(info.User, state)})
}
