// Package email sends outbound mail. The only sender today is the password
// reset flow. With no SMTP host configured the sender degrades to a logger,
// which is what development and tests want.
package email

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Sender is the outbound-notification interface the rest of the system
// depends on.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender delivers mail over plain-auth SMTP.
type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Logger   *zap.Logger
}

func NewSMTPSender(host, port, username, password, from string, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		Logger:   logger,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	if s.Host == "" {
		s.Logger.Info("smtp not configured, logging email instead",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", body),
		)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.From, to, subject, body)

	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)
	if err := smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
