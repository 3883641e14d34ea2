package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/vkarpenko/regauth/internal/common"
	"github.com/vkarpenko/regauth/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strptr(s string) *string { return &s }

const upsertQuery = `(?s)^\s*INSERT\s+INTO\s+users\s*\(provider_id,\s*login,\s*email,\s*name,\s*avatar_url,\s*access_token\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*ON\s+CONFLICT\s*\(provider_id\)\s+WHERE\s+provider_id\s*>\s*0\s+DO\s+UPDATE.*RETURNING\s+id,\s*provider_id,\s*login,\s*email,\s*name,\s*avatar_url,\s*access_token\s*$`

func TestCreateOrUpdate_Insert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "provider_id", "login", "email", "name", "avatar_url", "access_token"}).
		AddRow(int64(1), int64(100), "alice", "a@x.com", nil, nil, "gho_abc")
	mock.ExpectQuery(upsertQuery).
		WithArgs(int64(100), "alice", "a@x.com", nil, nil, "gho_abc").
		WillReturnRows(rows)

	got, err := repo.CreateOrUpdate(context.Background(), &models.User{
		ProviderID:  100,
		Login:       "alice",
		Email:       strptr("a@x.com"),
		AccessToken: "gho_abc",
	})
	if err != nil {
		t.Fatalf("CreateOrUpdate error: %v", err)
	}
	if got.ID != 1 || got.Login != "alice" || got.Email == nil || *got.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreateOrUpdate_ConflictKeepsStoredEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// The update set omits email, so the row comes back with the stored
	// address even though the incoming record carried a different one.
	rows := sqlmock.NewRows([]string{"id", "provider_id", "login", "email", "name", "avatar_url", "access_token"}).
		AddRow(int64(1), int64(100), "alice-renamed", "old@x.com", "Alice", nil, "gho_new")
	mock.ExpectQuery(upsertQuery).
		WithArgs(int64(100), "alice-renamed", "new@x.com", "Alice", nil, "gho_new").
		WillReturnRows(rows)

	got, err := repo.CreateOrUpdate(context.Background(), &models.User{
		ProviderID:  100,
		Login:       "alice-renamed",
		Email:       strptr("new@x.com"),
		Name:        strptr("Alice"),
		AccessToken: "gho_new",
	})
	if err != nil {
		t.Fatalf("CreateOrUpdate error: %v", err)
	}
	if *got.Email != "old@x.com" || got.Login != "alice-renamed" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreateOrUpdate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(upsertQuery).
		WillReturnError(errors.New("db down"))

	_, err := repo.CreateOrUpdate(context.Background(), &models.User{ProviderID: 100, Login: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*provider_id,\s*login,\s*email,\s*name,\s*avatar_url,\s*access_token\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	rows := sqlmock.NewRows([]string{"id", "provider_id", "login", "email", "name", "avatar_url", "access_token"}).
		AddRow(int64(7), int64(-1), "bob", nil, nil, "https://avatars/7", "gho_x")
	mock.ExpectQuery(q).WithArgs(int64(7)).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != 7 || got.ProviderID != models.UnknownProviderID || got.Email != nil {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*provider_id,\s*login`
	mock.ExpectQuery(q).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}
