package services

import (
	"context"
	"database/sql"

	"github.com/vkarpenko/regauth/internal/dbx"
	"github.com/vkarpenko/regauth/internal/server/models"
	apitokensrepo "github.com/vkarpenko/regauth/internal/server/repositories/apitokens"
	emailsrepo "github.com/vkarpenko/regauth/internal/server/repositories/emails"
	usersrepo "github.com/vkarpenko/regauth/internal/server/repositories/users"
)

// --- repository fakes shared by the service tests ---

type fakeUsersRepo struct {
	upsertOut *models.User
	upsertErr error
	upsertIn  *models.User

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) CreateOrUpdate(ctx context.Context, u *models.User) (*models.User, error) {
	f.upsertIn = u
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return f.upsertOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeEmailsRepo struct {
	created   bool
	createErr error
	createIn  struct {
		userID  int64
		address string
		token   string
	}
	createCalls int

	verifyErr error

	hasVerified bool
	hasErr      error

	findOut *models.Email
	findErr error
}

func (f *fakeEmailsRepo) CreateIfAbsent(ctx context.Context, userID int64, address, token string) (bool, error) {
	f.createCalls++
	f.createIn.userID, f.createIn.address, f.createIn.token = userID, address, token
	if f.createErr != nil {
		return false, f.createErr
	}
	return f.created, nil
}

func (f *fakeEmailsRepo) Verify(ctx context.Context, token string) error { return f.verifyErr }

func (f *fakeEmailsRepo) HasVerified(ctx context.Context, userID int64) (bool, error) {
	return f.hasVerified, f.hasErr
}

func (f *fakeEmailsRepo) FindByUser(ctx context.Context, userID int64) (*models.Email, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

type fakeTokensRepo struct {
	insertOut *models.APIToken
	insertErr error
	insertIn  struct {
		userID int64
		name   string
		token  string
	}
	insertCalls int

	listOut []models.APIToken
	listErr error

	count    int64
	countErr error

	revokeCalls int
	revokeIn    struct{ userID, tokenID int64 }
	revokeErr   error

	findUserID  int64
	findErr     error
	stampedWith string
}

func (f *fakeTokensRepo) Insert(ctx context.Context, userID int64, name, token string) (*models.APIToken, error) {
	f.insertCalls++
	f.insertIn.userID, f.insertIn.name, f.insertIn.token = userID, name, token
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if f.insertOut != nil {
		return f.insertOut, nil
	}
	return &models.APIToken{ID: 1, UserID: userID, Name: name, Token: token}, nil
}

func (f *fakeTokensRepo) List(ctx context.Context, userID int64) ([]models.APIToken, error) {
	return f.listOut, f.listErr
}

func (f *fakeTokensRepo) CountActive(ctx context.Context, userID int64) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeTokensRepo) Revoke(ctx context.Context, userID, tokenID int64) error {
	f.revokeCalls++
	f.revokeIn.userID, f.revokeIn.tokenID = userID, tokenID
	return f.revokeErr
}

func (f *fakeTokensRepo) FindUserIDByToken(ctx context.Context, token string) (int64, error) {
	f.stampedWith = token
	if f.findErr != nil {
		return 0, f.findErr
	}
	return f.findUserID, nil
}

type fakeRepoManager struct {
	users  *fakeUsersRepo
	tokens *fakeTokensRepo
	emails *fakeEmailsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.users }

func (m *fakeRepoManager) APITokens(db dbx.DBTX) apitokensrepo.Repository { return m.tokens }

func (m *fakeRepoManager) Emails(db dbx.DBTX) emailsrepo.Repository { return m.emails }

// --- notifier fake ---

type fakeNotifier struct {
	err   error
	calls int
	last  struct{ address, login, token string }
}

func (f *fakeNotifier) SendVerification(ctx context.Context, address, login, token string) error {
	f.calls++
	f.last.address, f.last.login, f.last.token = address, login, token
	return f.err
}
