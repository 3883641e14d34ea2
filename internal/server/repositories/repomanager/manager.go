package repomanager

import (
	"context"
	"database/sql"

	"github.com/vkarpenko/regauth/internal/dbx"
	"github.com/vkarpenko/regauth/internal/server/repositories/apitokens"
	"github.com/vkarpenko/regauth/internal/server/repositories/emails"
	"github.com/vkarpenko/regauth/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// run the same repository code against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	APITokens(db dbx.DBTX) apitokens.Repository
	Emails(db dbx.DBTX) emails.Repository
}
