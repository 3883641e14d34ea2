package models

// Email is a pending or completed verification of a contact address.
// Token is single-use; Verified flips to true at most once via the
// confirmation endpoint.
type Email struct {
	ID       int64
	UserID   int64
	Email    string
	Token    string
	Verified bool
}
