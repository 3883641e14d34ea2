// Package apitokens provides the PostgreSQL-backed credential store for
// opaque bearer tokens.
package apitokens

import (
	"context"

	"github.com/vkarpenko/regauth/internal/server/models"
)

type Repository interface {
	// Insert stores a freshly generated token for the user and returns the
	// full row, including the plaintext token value.
	Insert(ctx context.Context, userID int64, name, token string) (*models.APIToken, error)

	// List returns all of the user's tokens, revoked ones included, in a
	// stable order.
	List(ctx context.Context, userID int64) ([]models.APIToken, error)

	// CountActive returns the number of non-revoked tokens the user holds.
	CountActive(ctx context.Context, userID int64) (int64, error)

	// Revoke soft-deletes the token if and only if it belongs to userID.
	// Unknown, foreign, or already-revoked ids are a silent success.
	Revoke(ctx context.Context, userID, tokenID int64) error

	// FindUserIDByToken resolves a non-revoked token to its owning user id,
	// stamping last_used_at in the same statement. Returns
	// common.ErrNotFound when no such token exists.
	FindUserIDByToken(ctx context.Context, token string) (int64, error)
}
