// Package mailer delivers password reset codes.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"zaffira/internal/config"
)

const resetSubject = "Your Zaffira password reset code"

func resetBody(code string) string {
	return fmt.Sprintf(
		"<p>Your password reset code is <strong>%s</strong>.</p>"+
			"<p>It expires in 10 minutes. If you did not ask to reset your password you can ignore this email.</p>",
		code,
	)
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	from   string
	dialer dialer
	log    *zap.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		log:    log.Named("mailer"),
	}
}

func (m *SMTPMailer) SendResetCode(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", resetSubject)
	msg.SetBody("text/html", resetBody(code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.log.Debug("reset code sent", zap.String("to", to))
	return nil
}

// LogMailer writes codes to the log instead of sending them. It is used in
// development when no SMTP relay is configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.Named("mailer")}
}

func (m *LogMailer) SendResetCode(_ context.Context, to, code string) error {
	m.log.Warn("SMTP not configured, reset code logged instead of sent",
		zap.String("to", to),
		zap.String("code", code),
	)
	return nil
}
