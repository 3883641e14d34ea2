// Package services contains the server-side business logic: identity
// reconciliation, bearer-credential lifecycle, and rights resolution.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vkarpenko/regauth/internal/common"
	"github.com/vkarpenko/regauth/internal/dbx"
	"github.com/vkarpenko/regauth/internal/logging"
	"github.com/vkarpenko/regauth/internal/server/email"
	"github.com/vkarpenko/regauth/internal/server/models"
	"github.com/vkarpenko/regauth/internal/server/repositories/repomanager"
)

// NewIdentity is the candidate record arriving from the OAuth callback.
type NewIdentity struct {
	ProviderID  int64
	Login       string
	Email       *string
	Name        *string
	AvatarURL   *string
	AccessToken string
}

// IdentityService reconciles provider identities into local user records
// and owns the contact-address verification workflow.
type IdentityService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	notifier email.Notifier
	logger   logging.Logger
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(db *sql.DB, repos repomanager.RepositoryManager, notifier email.Notifier, logger logging.Logger) *IdentityService {
	return &IdentityService{db: db, repos: repos, notifier: notifier, logger: logger}
}

// newVerificationToken is a seam for tests.
var newVerificationToken = uuid.NewString

// CreateOrUpdate upserts the identity and, when the stored row carries a
// contact address without a verification record yet, creates one and sends
// the verification mail — all inside one transaction. A notification
// failure rolls the whole reconciliation back: an identity change whose
// owner cannot be notified of the new address is treated as not having
// happened.
func (s *IdentityService) CreateOrUpdate(ctx context.Context, id NewIdentity) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repos.Users(tx).CreateOrUpdate(ctx, &models.User{
			ProviderID:  id.ProviderID,
			Login:       id.Login,
			Email:       id.Email,
			Name:        id.Name,
			AvatarURL:   id.AvatarURL,
			AccessToken: id.AccessToken,
		})
		if err != nil {
			return fmt.Errorf("upserting user: %w", err)
		}

		// The stored address wins on conflict, so check the row that came
		// back, not the incoming record.
		if user.Email == nil || *user.Email == "" {
			return nil
		}

		token := newVerificationToken()
		created, err := s.repos.Emails(tx).CreateIfAbsent(ctx, user.ID, *user.Email, token)
		if err != nil {
			return fmt.Errorf("creating email record: %w", err)
		}
		if !created {
			return nil
		}

		if err := s.notifier.SendVerification(ctx, *user.Email, user.Login, token); err != nil {
			s.logger.Error(ctx, "verification email failed, rolling back identity upsert",
				"user_id", user.ID, "error", err)
			return common.DependencyError("could not send verification email", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns the user with the given local id.
func (s *IdentityService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFoundError("user not found")
		}
		return nil, err
	}
	return user, nil
}

// HasVerifiedEmail reports whether the user holds at least one verified
// contact address. Pure existence check, no side effects.
func (s *IdentityService) HasVerifiedEmail(ctx context.Context, userID int64) (bool, error) {
	return s.repos.Emails(s.db).HasVerified(ctx, userID)
}

// EmailState describes the user's most recent email record for views.
type EmailState struct {
	Verified         bool
	VerificationSent bool
}

// EmailStateFor returns the verification state of the user's contact
// address; a user without any email record gets the zero state.
func (s *IdentityService) EmailStateFor(ctx context.Context, userID int64) (EmailState, error) {
	rec, err := s.repos.Emails(s.db).FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return EmailState{}, nil
		}
		return EmailState{}, err
	}
	return EmailState{Verified: rec.Verified, VerificationSent: rec.Token != ""}, nil
}

// VerifyEmail flips the record matching the single-use token to verified.
func (s *IdentityService) VerifyEmail(ctx context.Context, token string) error {
	if err := s.repos.Emails(s.db).Verify(ctx, token); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFoundError("email verification token not found")
		}
		return err
	}
	return nil
}
