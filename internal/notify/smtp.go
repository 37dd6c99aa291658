package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	appconfig "github.com/fireregsco/crm/internal/config"
	"github.com/fireregsco/crm/internal/pkg/logger"
)

// SMTPSender delivers email through a plain SMTP relay. It is the fallback
// for deployments without AWS credentials.
type SMTPSender struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

// NewSMTPSender creates an SMTP-backed sender.
func NewSMTPSender(cfg appconfig.NotifyConfig) (*SMTPSender, error) {
	if cfg.SMTP.Host == "" {
		return nil, fmt.Errorf("smtp: host is required")
	}
	port := cfg.SMTP.Port
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		dialer:    gomail.NewDialer(cfg.SMTP.Host, port, cfg.SMTP.Username, cfg.SMTP.Password),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}, nil
}

func (s *SMTPSender) Send(_ context.Context, msg *Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromEmail, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	if msg.TextBody != "" {
		m.AddAlternative("text/plain", msg.TextBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", logger.RedactEmail(msg.To), err)
	}
	logger.Info("email sent", "provider", "smtp", "to", msg.To)
	return nil
}
