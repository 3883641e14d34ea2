package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/vkarpenko/regauth/internal/common"
	"github.com/vkarpenko/regauth/internal/logging"
	"github.com/vkarpenko/regauth/internal/server/auth"
	"github.com/vkarpenko/regauth/internal/server/services"
)

// identityProvider exchanges the OAuth authorization code and fetches the
// provider-side user record. Implemented by oauthx.Client; faked in tests.
type identityProvider interface {
	Exchange(ctx context.Context, code string) (accessToken string, err error)
	FetchUser(ctx context.Context, accessToken string) (services.NewIdentity, error)
}

// SessionHandler serves login (the OAuth callback) and logout.
type SessionHandler struct {
	identity identityService
	provider identityProvider

	sessionSecret   []byte
	sessionValidity time.Duration
	logger          logging.Logger
}

func NewSessionHandler(identity identityService, provider identityProvider, sessionSecret []byte, sessionValidity time.Duration, logger logging.Logger) *SessionHandler {
	return &SessionHandler{
		identity:        identity,
		provider:        provider,
		sessionSecret:   sessionSecret,
		sessionValidity: sessionValidity,
		logger:          logger,
	}
}

// Authorize handles GET /session/authorize: the provider redirects here
// with a code, which is exchanged, resolved to a provider user record,
// reconciled into the local store, and answered with a session cookie.
func (h *SessionHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeErr(w, common.ValidationError("code must have a value"))
		return
	}

	accessToken, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error(r.Context(), "oauth code exchange failed", "error", err)
		writeErr(w, common.DependencyError("could not complete provider login", err))
		return
	}

	identity, err := h.provider.FetchUser(r.Context(), accessToken)
	if err != nil {
		h.logger.Error(r.Context(), "provider user fetch failed", "error", err)
		writeErr(w, common.DependencyError("could not load provider account", err))
		return
	}

	user, err := h.identity.CreateOrUpdate(r.Context(), identity)
	if err != nil {
		writeErr(w, err)
		return
	}

	session, err := auth.GenerateSession(user.ID, h.sessionSecret, h.sessionValidity)
	if err != nil {
		writeErr(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session,
		Path:     "/",
		MaxAge:   int(h.sessionValidity.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	state, err := h.identity.EmailStateFor(r.Context(), user.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": newUserView(user, state)})
}

// Logout handles DELETE /session: drops the cookie. Sessions are
// self-contained, so there is no server-side state to clear.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
