// Package auth issues and validates signed session tokens for users who
// logged in through the OAuth callback. Bearer API tokens are handled by
// the token service; this package only covers browser-style sessions.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vkarpenko/regauth/internal/common"
)

// Claims carries the standard registered claims plus the local user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// GenerateSession signs a session token for userID valid for the given
// duration (HS256).
func GenerateSession(userID int64, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})
	return token.SignedString(secretKey)
}

// UserIDFromSession validates the session token and extracts the user id.
// Expired, forged, or malformed tokens all map to common.ErrInvalidToken.
func UserIDFromSession(tokenString string, secretKey []byte) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return 0, common.ErrInvalidToken
	}

	return claims.UserID, nil
}
