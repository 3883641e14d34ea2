package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vkarpenko/regauth/internal/common"
	"github.com/vkarpenko/regauth/internal/dbx"
	"github.com/vkarpenko/regauth/internal/server/models"
)

// PostgresRepository implements the identity store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateOrUpdate upserts the user keyed on its provider id.
//
// The conflict target carries WHERE provider_id > 0 because rows whose
// provider id was never backfilled all share the sentinel -1; those must
// insert fresh rows instead of colliding with each other. The stored email
// is deliberately absent from the update set, so on conflict the returned
// row keeps the address the user already had.
func (r *PostgresRepository) CreateOrUpdate(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (provider_id, login, email, name, avatar_url, access_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider_id) WHERE provider_id > 0 DO UPDATE
		SET login = excluded.login,
		    name = excluded.name,
		    avatar_url = excluded.avatar_url,
		    access_token = excluded.access_token
		RETURNING id, provider_id, login, email, name, avatar_url, access_token
	`
	stored := &models.User{}
	err := r.db.QueryRowContext(ctx, query,
		user.ProviderID, user.Login, user.Email, user.Name, user.AvatarURL, user.AccessToken).
		Scan(&stored.ID, &stored.ProviderID, &stored.Login, &stored.Email,
			&stored.Name, &stored.AvatarURL, &stored.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

// GetByID returns the user with the given local id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, provider_id, login, email, name, avatar_url, access_token
		FROM users
		WHERE id = $1
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.ProviderID, &user.Login, &user.Email,
			&user.Name, &user.AvatarURL, &user.AccessToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
