// Package httpapi exposes the identity and credential operations over
// HTTP: the OAuth callback, the current-user endpoint, token management,
// and email confirmation.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/vkarpenko/regauth/internal/logging"
)

// Router wires the handlers into the HTTP surface.
type Router struct {
	identity identityService
	tokens   tokenService
	provider identityProvider

	sessionSecret   []byte
	sessionValidity time.Duration
	logger          logging.Logger
}

func NewRouter(identity identityService, tokens tokenService, provider identityProvider, sessionSecret []byte, sessionValidity time.Duration, logger logging.Logger) *Router {
	return &Router{
		identity:        identity,
		tokens:          tokens,
		provider:        provider,
		sessionSecret:   sessionSecret,
		sessionValidity: sessionValidity,
		logger:          logger,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(rt.logger))
	r.Use(chimiddleware.Recoverer)

	authenticator := NewAuthenticator(rt.tokens, rt.identity, rt.sessionSecret, rt.logger)
	sessionH := NewSessionHandler(rt.identity, rt.provider, rt.sessionSecret, rt.sessionValidity, rt.logger)
	confirmH := NewConfirmHandler(rt.identity)
	meH := NewMeHandler(rt.identity)
	tokenH := NewTokenHandler(rt.tokens)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/session/authorize", sessionH.Authorize)
		r.Delete("/session", sessionH.Logout)
		r.Put("/confirm/{token}", confirmH.Confirm)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Use(RequireAuth)

			r.Get("/me", meH.Show)
			r.Route("/me/tokens", func(r chi.Router) {
				r.Get("/", tokenH.List)
				r.Put("/", tokenH.Create)
				r.Delete("/{id}", tokenH.Revoke)
			})
		})
	})

	return r
}
