package apitokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vkarpenko/regauth/internal/common"
	"github.com/vkarpenko/regauth/internal/dbx"
	"github.com/vkarpenko/regauth/internal/server/models"
)

// PostgresRepository implements the credential store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a new token row and returns it. The token value is never
// regenerated after this point.
func (r *PostgresRepository) Insert(ctx context.Context, userID int64, name, token string) (*models.APIToken, error) {
	query := `
		INSERT INTO api_tokens (user_id, name, token)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	row := &models.APIToken{UserID: userID, Name: name, Token: token}
	err := r.db.QueryRowContext(ctx, query, userID, name, token).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

// List returns the user's tokens ordered by id.
func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]models.APIToken, error) {
	query := `
		SELECT id, user_id, name, token, revoked, created_at, last_used_at
		FROM api_tokens
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var tokens []models.APIToken
	for rows.Next() {
		var t models.APIToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Token, &t.Revoked, &t.CreatedAt, &t.LastUsedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tokens, nil
}

// CountActive counts the user's non-revoked tokens.
func (r *PostgresRepository) CountActive(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT count(*)
		FROM api_tokens
		WHERE user_id = $1 AND revoked = false
	`
	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Revoke flips the revoked flag for the token owned by userID. Zero rows
// affected is not an error: revealing whether the id existed or belonged to
// someone else would let callers enumerate foreign token ids.
func (r *PostgresRepository) Revoke(ctx context.Context, userID, tokenID int64) error {
	query := `
		UPDATE api_tokens
		SET revoked = true
		WHERE id = $1 AND user_id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, tokenID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindUserIDByToken checks validity and stamps last_used_at in one
// statement, so two concurrent requests can never both observe a stale
// stamp, and a concurrent revoke either beats the update or waits behind it.
func (r *PostgresRepository) FindUserIDByToken(ctx context.Context, token string) (int64, error) {
	query := `
		UPDATE api_tokens
		SET last_used_at = now()
		WHERE token = $1 AND revoked = false
		RETURNING user_id
	`
	var userID int64
	err := r.db.QueryRowContext(ctx, query, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}
