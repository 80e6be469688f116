package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/qingping857/Blind-date-platform/internal/config"
	"github.com/qingping857/Blind-date-platform/internal/logger"
)

// CodeSender delivers a verification code to an email address.
type CodeSender interface {
	SendCode(ctx context.Context, to, code string) error
}

type SMTPSender struct {
	cfg *config.SMTPConfig
}

func NewSMTPSender(cfg *config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendCode(_ context.Context, to, code string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := []byte(
		"From: " + s.cfg.From + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: Your verification code\r\n" +
			"\r\n" +
			"Your verification code is " + code + ". It expires in 10 minutes.\r\n")

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// LogSender logs codes instead of mailing them. Used when no SMTP host is
// configured, which is the local development setup.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendCode(_ context.Context, to, code string) error {
	logger.Info("verification code issued", "email", to, "code", code)
	return nil
}
