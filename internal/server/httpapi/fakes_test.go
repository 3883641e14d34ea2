package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/vkarpenko/regauth/internal/logging"
	"github.com/vkarpenko/regauth/internal/server/auth"
	"github.com/vkarpenko/regauth/internal/server/models"
	"github.com/vkarpenko/regauth/internal/server/services"
)

var testSecret = []byte("test-secret")

type fakeIdentity struct {
	user   *models.User
	getErr error

	state    services.EmailState
	stateErr error

	verifyErr   error
	verifiedTok string

	created   *models.User
	createErr error
	createdIn services.NewIdentity
}

func (f *fakeIdentity) CreateOrUpdate(ctx context.Context, id services.NewIdentity) (*models.User, error) {
	f.createdIn = id
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeIdentity) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}

func (f *fakeIdentity) EmailStateFor(ctx context.Context, userID int64) (services.EmailState, error) {
	return f.state, f.stateErr
}

func (f *fakeIdentity) VerifyEmail(ctx context.Context, token string) error {
	f.verifiedTok = token
	return f.verifyErr
}

type fakeTokens struct {
	issueOut   *models.APIToken
	issueErr   error
	issueCalls int
	issueName  string

	listOut []models.APIToken
	listErr error

	revokeIn  struct{ userID, tokenID int64 }
	revokeErr error

	authUser *models.User
	authErr  error
}

func (f *fakeTokens) Issue(ctx context.Context, userID int64, name string) (*models.APIToken, error) {
	f.issueCalls++
	f.issueName = name
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	return f.issueOut, nil
}

func (f *fakeTokens) List(ctx context.Context, userID int64) ([]models.APIToken, error) {
	return f.listOut, f.listErr
}

func (f *fakeTokens) Revoke(ctx context.Context, userID, tokenID int64) error {
	f.revokeIn.userID, f.revokeIn.tokenID = userID, tokenID
	return f.revokeErr
}

func (f *fakeTokens) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.authUser, nil
}

type fakeProvider struct {
	accessToken string
	exchangeErr error

	identity services.NewIdentity
	fetchErr error
}

func (f *fakeProvider) Exchange(ctx context.Context, code string) (string, error) {
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.accessToken, nil
}

func (f *fakeProvider) FetchUser(ctx context.Context, accessToken string) (services.NewIdentity, error) {
	if f.fetchErr != nil {
		return services.NewIdentity{}, f.fetchErr
	}
	return f.identity, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestServer(identity *fakeIdentity, tokens *fakeTokens, provider *fakeProvider) *httptest.Server {
	rt := NewRouter(identity, tokens, provider, testSecret, time.Hour, testLogger())
	return httptest.NewServer(rt.Setup())
}

func sessionCookieFor(userID int64) string {
	session, err := auth.GenerateSession(userID, testSecret, time.Hour)
	if err != nil {
		panic(err)
	}
	return session
}
