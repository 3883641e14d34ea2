package email

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPNotifier delivers verification mail through a plain SMTP relay.
type SMTPNotifier struct {
	addr    string // host:port
	from    string
	baseURL string // public base URL used to build the confirmation link
}

func NewSMTPNotifier(addr, from, baseURL string) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, from: from, baseURL: baseURL}
}

// sendMail is a seam for testing smtp.SendMail.
var sendMail = smtp.SendMail

func (n *SMTPNotifier) SendVerification(ctx context.Context, address, login, token string) error {
	body := fmt.Sprintf(
		"To: %s\r\nSubject: Please confirm your email address\r\n\r\n"+
			"Hello %s! Please confirm your email address by visiting\r\n%s/confirm/%s\r\n",
		address, login, n.baseURL, token)

	if err := sendMail(n.addr, nil, n.from, []string{address}, []byte(body)); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	return nil
}
