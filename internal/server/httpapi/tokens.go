package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vkarpenko/regauth/internal/common"
)

// maxTokenBodyLen caps the token-creation request body. Token bodies carry
// a short name; anything bigger is malformed or hostile.
const maxTokenBodyLen = 2000

// TokenHandler serves the authenticated user's credential endpoints.
type TokenHandler struct {
	tokens tokenService
}

func NewTokenHandler(tokens tokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// List handles GET /me/tokens. Values are redacted; the plaintext token is
// shown exactly once, in the Create response.
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	info := authFromContext(r.Context())

	tokens, err := h.tokens.List(r.Context(), info.User.ID)
	if err != nil {
		writeErr(w, err)
		return
	}

	views := make([]tokenView, 0, len(tokens))
	for _, t := range tokens {
		views = append(views, newTokenView(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"api_tokens": views})
}

type createTokenRequest struct {
	APIToken struct {
		Name string `json:"name"`
	} `json:"api_token"`
}

// Create handles PUT /me/tokens. Requests that authenticated with a bearer
// token are refused: a leaked credential must not be able to mint
// replacements for itself.
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	info := authFromContext(r.Context())
	if info.ViaToken {
		writeErr(w, common.ForbiddenError("cannot use an API token to create a new API token"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTokenBodyLen)

	var req createTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeErr(w, common.ValidationError(fmt.Sprintf("max content length is: %d", maxTokenBodyLen)))
			return
		}
		writeErr(w, common.ValidationError("invalid json request"))
		return
	}

	token, err := h.tokens.Issue(r.Context(), info.User.ID, req.APIToken.Name)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"api_token": newTokenView(*token).withValue(token.Token),
	})
}

// Revoke handles DELETE /me/tokens/{id}. Unknown and foreign ids succeed
// with the same empty body as a real revocation.
func (h *TokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	info := authFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, common.ValidationError("invalid token id"))
		return
	}

	if err := h.tokens.Revoke(r.Context(), info.User.ID, id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}
