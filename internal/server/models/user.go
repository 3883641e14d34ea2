// Package models defines the persistent and resolution-time types of the
// identity core: users, API tokens, email records, and resource owners.
package models

// UnknownProviderID marks users whose numeric id at the external provider
// could not be determined when the row was backfilled. Rows carrying it are
// excluded from the provider-id uniqueness constraint, so several of them
// may coexist.
const UnknownProviderID int64 = -1

// User is a local identity reconciled from the external OAuth provider.
// Email, Name, and AvatarURL are nil when the provider did not supply them.
type User struct {
	ID          int64
	Email       *string
	AccessToken string
	Login       string
	Name        *string
	AvatarURL   *string
	ProviderID  int64
}
