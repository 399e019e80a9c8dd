package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/tecnotooling/estoque/backend/config"
)

// Sender delivers notification mail. Delivery guarantees are out of scope;
// the auth service only needs a fire point for reset links.
type Sender interface {
	Send(to, subject, html string) error
}

// SMTPSender sends through the configured SMTP relay.
type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to, subject, html string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, html)

	var a smtp.Auth
	if s.cfg.Username != "" {
		a = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	return smtp.SendMail(addr, a, s.cfg.From, []string{to}, []byte(msg))
}

// Discard silently drops mail. Used in tests.
type Discard struct{}

func (Discard) Send(to, subject, html string) error { return nil }
