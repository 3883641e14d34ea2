package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/vkarpenko/regauth/internal/common"
	"github.com/vkarpenko/regauth/internal/logging"
	"github.com/vkarpenko/regauth/internal/server/auth"
	"github.com/vkarpenko/regauth/internal/server/models"
	"github.com/vkarpenko/regauth/internal/server/services"
)

// The handlers consume these narrow views of the service layer so tests can
// substitute fakes.
type identityService interface {
	CreateOrUpdate(ctx context.Context, id services.NewIdentity) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	EmailStateFor(ctx context.Context, userID int64) (services.EmailState, error)
	VerifyEmail(ctx context.Context, token string) error
}

type tokenService interface {
	Issue(ctx context.Context, userID int64, name string) (*models.APIToken, error)
	List(ctx context.Context, userID int64) ([]models.APIToken, error)
	Revoke(ctx context.Context, userID, tokenID int64) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// authInfo is what the Authenticator leaves in the request context. ViaToken
// records whether the request authenticated with a bearer API token rather
// than a session; token-minting is refused for such requests.
type authInfo struct {
	User     *models.User
	ViaToken bool
}

type ctxKey int

const authKey ctxKey = 0

func withAuth(ctx context.Context, info *authInfo) context.Context {
	return context.WithValue(ctx, authKey, info)
}

func authFromContext(ctx context.Context) *authInfo {
	info, _ := ctx.Value(authKey).(*authInfo)
	return info
}

// SessionCookie is the name of the signed session cookie set on login.
const SessionCookie = "session"

// Authenticator resolves request credentials to a user. A bearer token in
// the Authorization header takes precedence over the session cookie. A
// present-but-invalid bearer token fails the request; an invalid cookie
// just leaves the request unauthenticated for RequireAuth to reject.
type Authenticator struct {
	tokens        tokenService
	identity      identityService
	sessionSecret []byte
	logger        logging.Logger
}

func NewAuthenticator(tokens tokenService, identity identityService, sessionSecret []byte, logger logging.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, identity: identity, sessionSecret: sessionSecret, logger: logger}
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if header := r.Header.Get("Authorization"); header != "" {
			token := strings.TrimPrefix(header, "Bearer ")

			user, err := a.tokens.Authenticate(r.Context(), token)
			if err != nil {
				if common.ErrKind(err) == common.KindNotFound {
					writeErr(w, common.ForbiddenError("invalid API token"))
					return
				}
				a.logger.Error(r.Context(), "token authentication failed", "error", err)
				writeErr(w, err)
				return
			}

			ctx := withAuth(r.Context(), &authInfo{User: user, ViaToken: true})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if cookie, err := r.Cookie(SessionCookie); err == nil {
			userID, err := auth.UserIDFromSession(cookie.Value, a.sessionSecret)
			if err == nil {
				user, err := a.identity.GetUser(r.Context(), userID)
				if err == nil {
					ctx := withAuth(r.Context(), &authInfo{User: user})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests the Authenticator left anonymous.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authFromContext(r.Context()) == nil {
			writeErr(w, common.ForbiddenError("this action requires authentication"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger emits one structured line per request.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
