// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/go-mail/mail"
)

// Message is a single outbound email. At least one of Text or HTML is set.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// System sends email.
type System interface {
	Send(ctx context.Context, msg Message) error
}

// Dialer delivers composed messages. *mail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type smtpMailer struct {
	from   string
	dialer Dialer
	logger *slog.Logger
}

type logMailer struct {
	logger *slog.Logger
}

// New creates the mailer selected by cfg.Driver.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "mailer")

	switch cfg.Driver {
	case DriverLog:
		return &logMailer{logger: logger}, nil
	case DriverSMTP:
		return NewWithDialer(cfg.From, newDialer(cfg), logger), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.Driver)
	}
}

// NewWithDialer creates an SMTP mailer that delivers through d.
func NewWithDialer(from string, d Dialer, logger *slog.Logger) System {
	return &smtpMailer{from: from, dialer: d, logger: logger}
}

func newDialer(cfg *Config) *mail.Dialer {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}

	switch cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	}
	return d
}

func (s *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("smtp send failed", "to", msg.To, "error", err)
		return fmt.Errorf("smtp send: %w", err)
	}

	s.logger.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (l *logMailer) Send(_ context.Context, msg Message) error {
	l.logger.Info("email", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}
