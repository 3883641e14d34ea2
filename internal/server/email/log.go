package email

import (
	"context"

	"github.com/vkarpenko/regauth/internal/logging"
)

// LogNotifier writes the verification token to the log instead of sending
// mail. Used in development, where no SMTP relay is configured.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendVerification(ctx context.Context, address, login, token string) error {
	n.logger.Info(ctx, "verification email (dev mode)",
		"address", address, "login", login, "token", token)
	return nil
}
