package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vkarpenko/regauth/internal/common"
	"github.com/vkarpenko/regauth/internal/dbx"
	"github.com/vkarpenko/regauth/internal/server/models"
	"github.com/vkarpenko/regauth/internal/server/repositories/repomanager"
)

const (
	// tokenSize is the number of random bytes per token value; the stored
	// string is twice as long (hex).
	tokenSize = 32

	// maxTokenNameLen bounds the human-readable name.
	maxTokenNameLen = 255
)

// TokenService owns the bearer-credential lifecycle: issuance, listing,
// revocation, and resolving inbound tokens to users.
type TokenService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	maxPerUser int64
}

// NewTokenService constructs a TokenService. maxPerUser caps the number of
// active credentials a single user may hold.
func NewTokenService(db *sql.DB, repos repomanager.RepositoryManager, maxPerUser int64) *TokenService {
	return &TokenService{db: db, repos: repos, maxPerUser: maxPerUser}
}

// Issue generates a fresh unguessable token for the user. The returned row
// is the only place the plaintext value ever appears; list responses
// redact it. The cap check and the insert share a transaction so two
// concurrent issuances cannot both squeeze under the limit.
func (s *TokenService) Issue(ctx context.Context, userID int64, name string) (*models.APIToken, error) {
	if name == "" {
		return nil, common.ValidationError("name must have a value")
	}
	if len(name) > maxTokenNameLen {
		return nil, common.ValidationError(fmt.Sprintf("name must not exceed %d characters", maxTokenNameLen))
	}

	value, err := common.MakeRandHexString(tokenSize)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	var token *models.APIToken
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.APITokens(tx)

		count, err := repo.CountActive(ctx, userID)
		if err != nil {
			return fmt.Errorf("counting tokens: %w", err)
		}
		if count >= s.maxPerUser {
			return common.ValidationError(fmt.Sprintf("maximum tokens per user is: %d", s.maxPerUser))
		}

		token, err = repo.Insert(ctx, userID, name, value)
		if err != nil {
			return fmt.Errorf("inserting token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// List returns all of the user's credentials, revoked ones included.
func (s *TokenService) List(ctx context.Context, userID int64) ([]models.APIToken, error) {
	return s.repos.APITokens(s.db).List(ctx, userID)
}

// Revoke soft-deletes the credential if it belongs to userID. Unknown or
// foreign ids succeed silently so credential ids cannot be probed.
func (s *TokenService) Revoke(ctx context.Context, userID, tokenID int64) error {
	return s.repos.APITokens(s.db).Revoke(ctx, userID, tokenID)
}

// Authenticate resolves an opaque bearer token to its owning user. The
// validity check and the last-used stamp are one statement in the
// repository, so no stamped-but-rejected state can be observed.
func (s *TokenService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.repos.APITokens(s.db).FindUserIDByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFoundError("invalid API token")
		}
		return nil, err
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading token owner: %w", err)
	}
	return user, nil
}
