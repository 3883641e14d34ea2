package models

import "time"

// APIToken is an issued bearer credential. Token holds the opaque value
// generated once at creation; it is returned to the caller exactly once
// and redacted everywhere else. Revocation is a soft delete so the row
// stays around for audit.
type APIToken struct {
	ID         int64
	UserID     int64
	Token      string
	Name       string
	Revoked    bool
	CreatedAt  time.Time
	LastUsedAt *time.Time
}
