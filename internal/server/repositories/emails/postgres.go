package emails

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vkarpenko/regauth/internal/common"
	"github.com/vkarpenko/regauth/internal/dbx"
	"github.com/vkarpenko/regauth/internal/server/models"
)

// PostgresRepository implements the email-record store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateIfAbsent relies on ON CONFLICT DO NOTHING: the RETURNING clause
// yields a row only when the insert actually happened, so an existing
// (user_id, email) pair — verified or not — is left exactly as it was.
func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, userID int64, address, token string) (bool, error) {
	query := `
		INSERT INTO emails (user_id, email, token)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
		RETURNING token
	`
	var stored string
	err := r.db.QueryRowContext(ctx, query, userID, address, token).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// Verify flips the matching record to verified. A token that matches no
// record is common.ErrNotFound; re-verifying an already verified record is
// harmless.
func (r *PostgresRepository) Verify(ctx context.Context, token string) error {
	query := `
		UPDATE emails
		SET verified = true
		WHERE token = $1
	`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// HasVerified is a pure existence check over verified records.
func (r *PostgresRepository) HasVerified(ctx context.Context, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM emails WHERE user_id = $1 AND verified = true
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// FindByUser returns the most recent email record for the user.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID int64) (*models.Email, error) {
	query := `
		SELECT id, user_id, email, token, verified
		FROM emails
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT 1
	`
	e := &models.Email{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&e.ID, &e.UserID, &e.Email, &e.Token, &e.Verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}
