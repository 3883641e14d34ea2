package httpapi

import (
	"time"

	"github.com/vkarpenko/regauth/internal/server/models"
	"github.com/vkarpenko/regauth/internal/server/services"
)

// userView is the private representation of the authenticated user. It is
// never used for other users' records.
type userView struct {
	ID                    int64   `json:"id"`
	Login                 string  `json:"login"`
	Email                 *string `json:"email"`
	Name                  *string `json:"name"`
	AvatarURL             *string `json:"avatar"`
	EmailVerified         bool    `json:"email_verified"`
	EmailVerificationSent bool    `json:"email_verification_sent"`
}

func newUserView(u *models.User, state services.EmailState) userView {
	return userView{
		ID:                    u.ID,
		Login:                 u.Login,
		Email:                 u.Email,
		Name:                  u.Name,
		AvatarURL:             u.AvatarURL,
		EmailVerified:         state.Verified,
		EmailVerificationSent: state.VerificationSent,
	}
}

// tokenView redacts the credential value. Only the issuance response sets
// Token, via withValue; listings never carry it.
type tokenView struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Token      string     `json:"token,omitempty"`
	Revoked    bool       `json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

func newTokenView(t models.APIToken) tokenView {
	return tokenView{
		ID:         t.ID,
		Name:       t.Name,
		Revoked:    t.Revoked,
		CreatedAt:  t.CreatedAt,
		LastUsedAt: t.LastUsedAt,
	}
}

func (v tokenView) withValue(token string) tokenView {
	v.Token = token
	return v
}
