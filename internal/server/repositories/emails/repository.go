// Package emails provides the PostgreSQL-backed store for contact-address
// verification records.
package emails

import (
	"context"

	"github.com/vkarpenko/regauth/internal/server/models"
)

type Repository interface {
	// CreateIfAbsent inserts a verification record for (userID, address)
	// with the given single-use token. When a record for the pair already
	// exists nothing is written and created is false; the existing token
	// and verified state are left untouched.
	CreateIfAbsent(ctx context.Context, userID int64, address, token string) (created bool, err error)

	// Verify marks the record carrying the token as verified. Returns
	// common.ErrNotFound when the token does not match any record.
	Verify(ctx context.Context, token string) error

	// HasVerified reports whether the user has at least one verified
	// contact address.
	HasVerified(ctx context.Context, userID int64) (bool, error)

	// FindByUser returns the user's most recent email record, or
	// common.ErrNotFound when none exists.
	FindByUser(ctx context.Context, userID int64) (*models.Email, error)
}
