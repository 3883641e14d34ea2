// Package users provides the PostgreSQL-backed identity store.
package users

import (
	"context"

	"github.com/vkarpenko/regauth/internal/server/models"
)

type Repository interface {
	// CreateOrUpdate inserts the user or, when a row with the same positive
	// provider id exists, refreshes its mutable fields and returns the
	// stored row.
	CreateOrUpdate(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns the user with the given local id.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
