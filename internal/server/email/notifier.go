// Package email defines the verification-notification contract consumed by
// the identity service, plus its SMTP and logging implementations.
package email

import "context"

// Notifier sends the "verify your contact address" notification. The
// identity upsert calls it inside its transaction and rolls everything back
// if it fails, so implementations must return an error rather than retry
// indefinitely.
type Notifier interface {
	SendVerification(ctx context.Context, address, login, token string) error
}
