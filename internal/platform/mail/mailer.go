// Package mail delivers the emails produced by the asynchronous mail
// pipeline. The worker renders each event into a subject and body, then hands
// it to a Mailer.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/shopstack-backend/internal/config"
)

// Mailer sends a rendered email to one or more recipients
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay
type SMTPMailer struct {
	host   string
	port   int
	from   string
	auth   smtp.Auth
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer from the application mail configuration.
// Auth is omitted when no username is configured, which suits local relays
// like MailHog.
func NewSMTPMailer(logger *slog.Logger, cfg *config.MailConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}

	return &SMTPMailer{
		host:   cfg.SMTPHost,
		port:   cfg.SMTPPort,
		from:   cfg.FromAddress,
		auth:   auth,
		logger: logger,
	}
}

// Send delivers the message to all recipients in a single SMTP transaction
func (m *SMTPMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	if err := smtp.SendMail(addr, m.auth, m.from, to, msg); err != nil {
		m.logger.Error("Failed to send mail",
			"recipients", len(to),
			"subject", subject,
			"error", err)
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
